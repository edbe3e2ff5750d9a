// Package services: services/dashboard_service.go
package services

import (
	"errors"
	"sync"

	"hackathon-portal/logger"
	"hackathon-portal/models"
)

// DashboardSnapshot is the cached team list + stats pair an admin is
// looking at. Status filters and optimistic status mutations operate on
// this snapshot without another round-trip; the authoritative values come
// back on the next full reload.
type DashboardSnapshot struct {
	Teams []models.Team
	Stats models.Stats
}

// DashboardServiceInterface manages per-admin dashboard snapshots.
type DashboardServiceInterface interface {
	Store(adminKey string, teams []models.Team, stats models.Stats)
	Get(adminKey string) (*DashboardSnapshot, bool)
	ApplyStatusChange(adminKey, teamID string, status models.PaymentStatus) error
	Clear(adminKey string)
}

// DashboardService keeps snapshots in memory, keyed by admin session.
type DashboardService struct {
	mu        sync.Mutex
	snapshots map[string]*DashboardSnapshot
}

var _ DashboardServiceInterface = (*DashboardService)(nil)

// NewDashboardService creates an empty snapshot store.
func NewDashboardService() *DashboardService {
	return &DashboardService{
		snapshots: make(map[string]*DashboardSnapshot),
	}
}

// Store replaces the snapshot for an admin with freshly fetched data.
func (s *DashboardService) Store(adminKey string, teams []models.Team, stats models.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[adminKey] = &DashboardSnapshot{Teams: teams, Stats: stats}
	logger.Debug.Printf("Store: cached dashboard snapshot (%d teams)", len(teams))
}

// Get returns a copy of the admin's snapshot, so callers can render it
// without holding the lock.
func (s *DashboardService) Get(adminKey string) (*DashboardSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, exists := s.snapshots[adminKey]
	if !exists {
		return nil, false
	}
	teams := make([]models.Team, len(snap.Teams))
	copy(teams, snap.Teams)
	return &DashboardSnapshot{Teams: teams, Stats: snap.Stats}, true
}

// ApplyStatusChange updates the matching team's status in the snapshot
// and adjusts the verified counter. Only the verified counter moves; the
// pending/rejected counters stay stale until the next full load.
func (s *DashboardService) ApplyStatusChange(adminKey, teamID string, status models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, exists := s.snapshots[adminKey]
	if !exists {
		return errors.New("no dashboard snapshot loaded")
	}

	for i := range snap.Teams {
		if snap.Teams[i].ID != teamID {
			continue
		}
		oldStatus := snap.Teams[i].PaymentStatus
		snap.Teams[i].PaymentStatus = status
		snap.Stats.ApplyStatusChange(oldStatus, status)
		logger.Info.Printf("ApplyStatusChange: team %s %s -> %s", teamID, oldStatus, status)
		return nil
	}
	return errors.New("team not found in snapshot")
}

// Clear drops the snapshot for an admin, e.g. on logout.
func (s *DashboardService) Clear(adminKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, adminKey)
}
