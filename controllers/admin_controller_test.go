// controllers/admin_controller_test.go
//go:build unit
// +build unit

package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"hackathon-portal/models"
	"hackathon-portal/services"
)

func newAdminRouter(t *testing.T, svc *services.MockPortalService, dash services.DashboardServiceInterface) (*gin.Engine, *AdminController) {
	router := setupTestRouter(t)
	ac := NewAdminController(svc, dash)
	router.GET("/admin/login", ac.ShowAdminLogin)
	router.POST("/admin/login", ac.PerformAdminLogin)
	router.GET("/admin/home", ac.ShowDashboard)
	router.POST("/admin/teams/:id/payment-status", ac.UpdatePaymentStatus)
	router.GET("/admin/logout", ac.AdminLogout)
	return router, ac
}

func sampleTeams() []models.Team {
	return []models.Team{
		{ID: "t1", TeamName: "Gophers", PaymentStatus: models.StatusPending},
		{ID: "t2", TeamName: "Rustaceans", PaymentStatus: models.StatusVerified},
		{ID: "t3", TeamName: "Pythonistas", PaymentStatus: models.StatusRejected},
	}
}

// TestPerformAdminLogin_Success checks the admin token lands in the
// session and the browser is sent to the dashboard.
func TestPerformAdminLogin_Success(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("AdminLogin", "admin@example.com", "secret123").
		Return(&services.AdminAuthResult{
			Token: "admin-token",
			Admin: models.Admin{ID: "a1", Email: "admin@example.com"},
		}, nil)

	router, _ := newAdminRouter(t, mockService, services.NewDashboardService())

	w := postForm(router, "/admin/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"secret123"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/home", w.Header().Get("Location"))
	mockService.AssertExpectations(t)
}

// TestDashboard_LoadsTeamsAndStats verifies a plain visit fetches both
// halves from the API and renders them.
func TestDashboard_LoadsTeamsAndStats(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("AdminTeams", "").Return(sampleTeams(), nil)
	mockService.On("AdminStats", "").Return(&models.Stats{
		TotalTeams:       3,
		VerifiedPayments: 1,
		PendingPayments:  1,
		RejectedPayments: 1,
	}, nil)

	router, _ := newAdminRouter(t, mockService, services.NewDashboardService())

	req, _ := http.NewRequest("GET", "/admin/home", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teams=3")
	assert.Contains(t, w.Body.String(), "verified=1")
	mockService.AssertExpectations(t)
}

// TestDashboard_StatsFailureFailsWholeLoad verifies the dashboard never
// renders with only half the data.
func TestDashboard_StatsFailureFailsWholeLoad(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("AdminTeams", "").Return(sampleTeams(), nil)
	mockService.On("AdminStats", "").Return(nil, &services.APIError{StatusCode: 500, Message: "stats down"})

	router, _ := newAdminRouter(t, mockService, services.NewDashboardService())

	req, _ := http.NewRequest("GET", "/admin/home", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load dashboard data")
}

// TestDashboard_MissingStatsFailsLoad verifies a 2xx stats response with
// no stats body is treated as a failed load, not rendered half-empty.
func TestDashboard_MissingStatsFailsLoad(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("AdminTeams", "").Return(sampleTeams(), nil)
	mockService.On("AdminStats", "").Return(nil, nil)

	router, _ := newAdminRouter(t, mockService, services.NewDashboardService())

	req, _ := http.NewRequest("GET", "/admin/home", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load dashboard data")
}

// TestDashboard_FilterUsesCachedSnapshot verifies filter changes never
// trigger another API fetch.
func TestDashboard_FilterUsesCachedSnapshot(t *testing.T) {
	mockService := new(services.MockPortalService)
	dash := services.NewDashboardService()
	dash.Store("", sampleTeams(), models.Stats{TotalTeams: 3, VerifiedPayments: 1})

	router, _ := newAdminRouter(t, mockService, dash)

	req, _ := http.NewRequest("GET", "/admin/home?status=pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teams=1")
	mockService.AssertNotCalled(t, "AdminTeams")
	mockService.AssertNotCalled(t, "AdminStats")
}

// TestUpdatePaymentStatus_OptimisticVerifiedCount verifies a verify
// bumps only the cached verified counter and redirects with the filter.
func TestUpdatePaymentStatus_OptimisticVerifiedCount(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("UpdatePaymentStatus", "", "t1", models.StatusVerified).Return(nil)

	dash := services.NewDashboardService()
	dash.Store("", sampleTeams(), models.Stats{
		TotalTeams:       3,
		VerifiedPayments: 1,
		PendingPayments:  1,
		RejectedPayments: 1,
	})

	router, _ := newAdminRouter(t, mockService, dash)

	w := postForm(router, "/admin/teams/t1/payment-status", url.Values{
		"status": {"verified"},
		"filter": {"pending"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/home?status=pending", w.Header().Get("Location"))

	snap, ok := dash.Get("")
	assert.True(t, ok)
	assert.Equal(t, 2, snap.Stats.VerifiedPayments)
	// pending and rejected counters stay stale until the next full load
	assert.Equal(t, 1, snap.Stats.PendingPayments)
	assert.Equal(t, models.StatusVerified, snap.Teams[0].PaymentStatus)
	mockService.AssertExpectations(t)
}

// TestUpdatePaymentStatus_InvalidStatusIgnored verifies a bogus status
// never reaches the API.
func TestUpdatePaymentStatus_InvalidStatusIgnored(t *testing.T) {
	mockService := new(services.MockPortalService)
	router, _ := newAdminRouter(t, mockService, services.NewDashboardService())

	w := postForm(router, "/admin/teams/t1/payment-status", url.Values{
		"status": {"approved"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	mockService.AssertNotCalled(t, "UpdatePaymentStatus")
}

// TestAdminLogout_ClearsSnapshot verifies logout drops the cached
// dashboard for that admin.
func TestAdminLogout_ClearsSnapshot(t *testing.T) {
	mockService := new(services.MockPortalService)
	dash := services.NewDashboardService()
	dash.Store("admin-token", sampleTeams(), models.Stats{TotalTeams: 3})

	router, _ := newAdminRouter(t, mockService, dash)
	cookie := SetSession(router, "/seed", map[string]interface{}{"adminToken": "admin-token"})

	req, _ := http.NewRequest("GET", "/admin/logout", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	_, ok := dash.Get("admin-token")
	assert.False(t, ok)
}
