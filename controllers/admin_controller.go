// Package controllers implements the admin dashboard.
// File: controllers/admin_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hackathon-portal/logger"
	"hackathon-portal/metrics"
	"hackathon-portal/models"
	"hackathon-portal/services"
	"hackathon-portal/websocket"
)

// AdminController serves the admin login, dashboard, and payment status
// mutations, plus the live update feed.
type AdminController struct {
	Service   services.PortalServiceInterface
	Dashboard services.DashboardServiceInterface
}

// NewAdminController initializes a new instance of AdminController
func NewAdminController(service services.PortalServiceInterface, dashboard services.DashboardServiceInterface) *AdminController {
	return &AdminController{Service: service, Dashboard: dashboard}
}

// adminToken returns the admin token stored at admin login.
func adminToken(c *gin.Context) string {
	session := sessions.Default(c)
	token, _ := session.Get("adminToken").(string)
	return token
}

// sessionAdmin decodes the admin record stored in the session.
func sessionAdmin(c *gin.Context) *models.Admin {
	session := sessions.Default(c)
	raw, ok := session.Get("admin").(string)
	if !ok || raw == "" {
		return nil
	}
	var admin models.Admin
	if err := json.Unmarshal([]byte(raw), &admin); err != nil {
		logger.Warn.Printf("sessionAdmin: failed to decode stored admin: %v", err)
		return nil
	}
	return &admin
}

// ------------------ admin auth ------------------

// ShowAdminLogin renders the admin login form.
func (ac *AdminController) ShowAdminLogin(c *gin.Context) {
	if adminToken(c) != "" {
		c.Redirect(http.StatusFound, "/admin/home")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

// PerformAdminLogin authenticates against the admin endpoint and stores
// the admin token + record in the session.
func (ac *AdminController) PerformAdminLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "admin_login.html", gin.H{
			"Error": "Please fill in all fields.",
			"Email": email,
		})
		return
	}

	result, err := ac.Service.AdminLogin(email, password)
	if err != nil {
		logger.Warn.Printf("PerformAdminLogin: admin login failed for %s: %v", email, err)
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"Error": loginErrorMessage(err),
			"Email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("adminToken", result.Token)
	if raw, err := json.Marshal(result.Admin); err == nil {
		session.Set("admin", string(raw))
	}
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformAdminLogin: Failed to save session:", err)
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{
			"Error": "Internal error, please try again.",
		})
		return
	}

	logger.Info.Printf("PerformAdminLogin: admin %s authenticated", email)
	c.Redirect(http.StatusFound, "/admin/home")
}

// AdminLogout drops the admin session along with its cached dashboard.
func (ac *AdminController) AdminLogout(c *gin.Context) {
	token := adminToken(c)
	if token != "" {
		ac.Dashboard.Clear(token)
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("AdminLogout: Error saving session during logout: %v", err)
	}

	c.Redirect(http.StatusFound, "/admin/login")
}

// ------------------ dashboard ------------------

// loadDashboard fetches teams and stats concurrently. Either call
// failing fails the whole load; the dashboard never renders one half.
func (ac *AdminController) loadDashboard(token string) ([]models.Team, *models.Stats, error) {
	var (
		wg       sync.WaitGroup
		teams    []models.Team
		stats    *models.Stats
		teamsErr error
		statsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		teams, teamsErr = ac.Service.AdminTeams(token)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = ac.Service.AdminStats(token)
	}()
	wg.Wait()

	if teamsErr != nil {
		return nil, nil, teamsErr
	}
	if statsErr != nil {
		return nil, nil, statsErr
	}
	if stats == nil {
		return nil, nil, errors.New("stats missing from response")
	}
	return teams, stats, nil
}

// ShowDashboard renders the team list with stats cards and the status
// filter. Switching the filter reuses the cached snapshot; only a plain
// visit (no ?status) refetches from the API.
func (ac *AdminController) ShowDashboard(c *gin.Context) {
	token := adminToken(c)
	filter, filtering := c.GetQuery("status")

	var snapshot *services.DashboardSnapshot
	if filtering {
		snapshot, _ = ac.Dashboard.Get(token)
	}

	if snapshot == nil {
		teams, stats, err := ac.loadDashboard(token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				ac.Dashboard.Clear(token)
				expireSession(c, "/admin/login")
				return
			}
			logger.Error.Printf("Dashboard: error loading dashboard: %v", err)
			c.HTML(http.StatusBadGateway, "admin_dashboard.html", gin.H{
				"Admin": sessionAdmin(c),
				"Error": "Failed to load dashboard data",
			})
			return
		}
		ac.Dashboard.Store(token, teams, *stats)
		snapshot = &services.DashboardSnapshot{Teams: teams, Stats: *stats}
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"Admin":         sessionAdmin(c),
		"Teams":         models.FilterTeams(snapshot.Teams, filter),
		"Stats":         snapshot.Stats,
		"Filter":        filter,
		"PendingCount":  models.CountByStatus(snapshot.Teams, models.StatusPending),
		"VerifiedCount": models.CountByStatus(snapshot.Teams, models.StatusVerified),
		"RejectedCount": models.CountByStatus(snapshot.Teams, models.StatusRejected),
	})
}

// UpdatePaymentStatus pushes a status change to the API, applies it
// optimistically to the cached snapshot, and notifies the live feed.
// A failed API call is logged but not surfaced; the admin lands back on
// the dashboard either way.
func (ac *AdminController) UpdatePaymentStatus(c *gin.Context) {
	token := adminToken(c)
	teamID := c.Param("id")
	status := models.PaymentStatus(c.PostForm("status"))
	filter := c.DefaultPostForm("filter", "all")

	redirect := func() {
		c.Redirect(http.StatusFound, "/admin/home?status="+filter)
	}

	if !status.Valid() {
		logger.Warn.Printf("UpdatePaymentStatus: invalid status %q for team %s", status, teamID)
		redirect()
		return
	}

	if err := ac.Service.UpdatePaymentStatus(token, teamID, status); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			ac.Dashboard.Clear(token)
			expireSession(c, "/admin/login")
			return
		}
		logger.Error.Printf("UpdatePaymentStatus: error updating team %s: %v", teamID, err)
		redirect()
		return
	}

	if err := ac.Dashboard.ApplyStatusChange(token, teamID, status); err != nil {
		logger.Warn.Printf("UpdatePaymentStatus: snapshot not updated: %v", err)
	}

	websocket.BroadcastPaymentStatus(teamID, string(status))
	metrics.PublishPaymentStatusChange(Env)

	redirect()
}

// ------------------ admin password ------------------

// ShowAdminPassword renders the admin password change form.
func (ac *AdminController) ShowAdminPassword(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_password.html", gin.H{
		"Admin": sessionAdmin(c),
	})
}

// ChangeAdminPassword validates and submits an admin password change.
func (ac *AdminController) ChangeAdminPassword(c *gin.Context) {
	current := c.PostForm("currentPassword")
	newPassword := c.PostForm("newPassword")
	confirm := c.PostForm("confirmPassword")

	renderError := func(message string) {
		c.HTML(http.StatusBadRequest, "admin_password.html", gin.H{
			"Admin": sessionAdmin(c),
			"Error": message,
		})
	}

	if current == "" || newPassword == "" || confirm == "" {
		renderError("Please fill in all fields.")
		return
	}
	if newPassword != confirm {
		renderError("New passwords do not match")
		return
	}
	if len(newPassword) < 6 {
		renderError("New password must be at least 6 characters long")
		return
	}

	if err := ac.Service.ChangeAdminPassword(adminToken(c), current, newPassword); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/admin/login")
			return
		}
		logger.Warn.Printf("ChangeAdminPassword: password change failed: %v", err)
		renderError(profileErrorMessage(err, "Failed to change password"))
		return
	}

	logger.Info.Println("ChangeAdminPassword: admin password changed")
	c.HTML(http.StatusOK, "admin_password.html", gin.H{
		"Admin":   sessionAdmin(c),
		"Success": "Password changed successfully!",
	})
}

// ------------------ live feed ------------------

// AdminFeed upgrades the request to a websocket connection that receives
// payment status broadcasts.
func (ac *AdminController) AdminFeed(c *gin.Context) {
	websocket.ServeAdminFeed(c.Writer, c.Request)
	metrics.PublishAdminFeedConnections(websocket.ConnectionCount(), Env)
}
