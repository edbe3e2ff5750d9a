// Package models defines data structures used across the application.
// File: models/portal.go
package models

import (
	"fmt"
	"regexp"
)

// ----------------------- user model -----------------------

// User represents a registered participant, as returned by the portal API.
type User struct {
	ID                 string `json:"_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registrationNumber"`
	Phone              string `json:"phone"`
	University         string `json:"university"`
	Course             string `json:"course"`
	Year               string `json:"year"`
}

// Admin represents an admin account, as returned by the portal API.
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ----------------------- team model -----------------------

// TeamSize is the size category of a team: Solo, Duo or Team.
type TeamSize string

// size categories
const (
	SizeSolo TeamSize = "Solo"
	SizeDuo  TeamSize = "Duo"
	SizeTeam TeamSize = "Team"
)

// Valid reports whether s is one of the known size categories.
func (s TeamSize) Valid() bool {
	return s == SizeSolo || s == SizeDuo || s == SizeTeam
}

// InitialRows is the number of member input rows shown right after
// switching to this size category (Solo=0, Duo=1, Team=2).
func (s TeamSize) InitialRows() int {
	switch s {
	case SizeDuo:
		return 1
	case SizeTeam:
		return 2
	default:
		return 0
	}
}

// MaxRows is the maximum number of member input rows allowed for this
// size category. Only the Team category may grow beyond its initial rows.
func (s TeamSize) MaxRows() int {
	switch s {
	case SizeDuo:
		return 1
	case SizeTeam:
		return 4
	default:
		return 0
	}
}

// PaymentStatus is the admin-controlled payment state of a team.
type PaymentStatus string

// payment statuses
const (
	StatusPending  PaymentStatus = "pending"
	StatusVerified PaymentStatus = "verified"
	StatusRejected PaymentStatus = "rejected"
)

// Valid reports whether p is one of the known payment statuses.
func (p PaymentStatus) Valid() bool {
	return p == StatusPending || p == StatusVerified || p == StatusRejected
}

// Label returns the status with the first letter capitalized, for display.
func (p PaymentStatus) Label() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return string(s[0]-'a'+'A') + s[1:]
}

// TeamMember is a lightweight member record attached to a team.
type TeamMember struct {
	Name               string `json:"name,omitempty"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registrationNumber"`
}

// Team represents a registered team, as returned by the portal API.
type Team struct {
	ID                 string        `json:"_id"`
	TeamName           string        `json:"teamName"`
	RegistrationNumber string        `json:"registrationNumber"`
	TeamSize           TeamSize      `json:"teamSize"`
	ProblemStatement   string        `json:"problemStatement"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
	PaymentScreenshot  string        `json:"paymentScreenshot,omitempty"`
	Leader             User          `json:"leader"`
	Members            []TeamMember  `json:"members"`
}

// ----------------------- registration form -----------------------

// MemberInput is a transient member row on the registration form. It is
// not persisted until the team registration call succeeds.
type MemberInput struct {
	Email              string
	RegistrationNumber string
}

// NewMemberRows returns the fresh row set for a size category. Switching
// size always discards previously entered rows.
func NewMemberRows(size TeamSize) []MemberInput {
	rows := make([]MemberInput, size.InitialRows())
	return rows
}

// emailPattern is the same basic local@domain.tld check the registration
// form applies before any network call.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the address passes the basic pattern check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CollectMembers turns the input rows into the member list submitted to
// the API. A row is included only when both fields are populated; rows
// with a single populated field are silently dropped. A complete row with
// a malformed email blocks the whole submission.
func CollectMembers(rows []MemberInput) ([]TeamMember, error) {
	members := make([]TeamMember, 0, len(rows))
	for _, row := range rows {
		if row.Email == "" || row.RegistrationNumber == "" {
			continue
		}
		if !ValidEmail(row.Email) {
			return nil, fmt.Errorf("Invalid email format: %s", row.Email)
		}
		members = append(members, TeamMember{
			Email:              row.Email,
			RegistrationNumber: row.RegistrationNumber,
		})
	}
	return members, nil
}

// TeamRegistration is the payload for the team registration call.
type TeamRegistration struct {
	TeamName         string       `json:"teamName"`
	TeamSize         TeamSize     `json:"teamSize"`
	ProblemStatement string       `json:"problemStatement"`
	Members          []TeamMember `json:"members"`
}

// ----------------------- admin dashboard -----------------------

// Stats is the aggregate counter snapshot shown on the admin dashboard.
type Stats struct {
	TotalTeams       int `json:"totalTeams"`
	VerifiedPayments int `json:"verifiedPayments"`
	PendingPayments  int `json:"pendingPayments"`
	RejectedPayments int `json:"rejectedPayments"`
}

// ApplyStatusChange adjusts the verified counter for a local status
// mutation. Only transitions into or out of "verified" move the counter;
// the pending and rejected counts go stale until the next full reload.
func (s *Stats) ApplyStatusChange(oldStatus, newStatus PaymentStatus) {
	if oldStatus == StatusVerified && newStatus != StatusVerified {
		s.VerifiedPayments--
	} else if oldStatus != StatusVerified && newStatus == StatusVerified {
		s.VerifiedPayments++
	}
}

// FilterTeams returns the teams whose payment status matches the filter.
// The filter value "all" (or empty) returns the list untouched.
func FilterTeams(teams []Team, filter string) []Team {
	if filter == "" || filter == "all" {
		return teams
	}
	filtered := make([]Team, 0, len(teams))
	for _, team := range teams {
		if string(team.PaymentStatus) == filter {
			filtered = append(filtered, team)
		}
	}
	return filtered
}

// CountByStatus counts teams with the given payment status, used for the
// filter option labels.
func CountByStatus(teams []Team, status PaymentStatus) int {
	n := 0
	for _, team := range teams {
		if team.PaymentStatus == status {
			n++
		}
	}
	return n
}

// ----------------------- misc payloads -----------------------

// SignupRequest is the payload for participant signup.
type SignupRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	RegistrationNumber string `json:"registrationNumber"`
	Phone              string `json:"phone"`
	University         string `json:"university"`
	Course             string `json:"course"`
	Year               string `json:"year"`
}

// ProfileUpdate is the payload for the profile update call. Email and
// registration number are immutable and therefore absent.
type ProfileUpdate struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	University string `json:"university"`
	Course     string `json:"course"`
	Year       string `json:"year"`
}

// CompressionInfo is the server-reported before/after metadata for an
// uploaded payment screenshot. The portal renders it verbatim; no
// compression happens on this side.
type CompressionInfo struct {
	OriginalSize     int64  `json:"originalSize"`
	CompressedSize   int64  `json:"compressedSize"`
	CompressionRatio string `json:"compressionRatio"`
}

// KB renders a byte count as kilobytes with one decimal, matching the
// upload result display.
func KB(bytes int64) string {
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}
