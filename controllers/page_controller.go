// Package controllers file: controllers/page_controller.go
package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hackathon-portal/logger"
	"hackathon-portal/models"
	"hackathon-portal/services"
)

var (
	// ApplicationURL is the public URL of this portal, used in QR codes.
	ApplicationURL string
	// Env is the running environment name, used as a metric dimension.
	Env string
)

// SetConfig sets global application URL and environment name
func SetConfig(appURL, env string) {
	ApplicationURL = appURL
	Env = env
	logger.Info.Printf("SetConfig: Global config updated: ApplicationURL=%s, Env=%s", appURL, env)
}

// ------------------ session helpers ------------------

// sessionUser decodes the user record stored in the session at login.
func sessionUser(c *gin.Context) *models.User {
	session := sessions.Default(c)
	raw, ok := session.Get("user").(string)
	if !ok || raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn.Printf("sessionUser: failed to decode stored user: %v", err)
		return nil
	}
	return &user
}

// saveSessionUser stores the user record in the session as JSON.
func saveSessionUser(c *gin.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set("user", string(raw))
	return session.Save()
}

// isAuthenticated reports whether a participant session is present.
func isAuthenticated(c *gin.Context) bool {
	session := sessions.Default(c)
	token, ok := session.Get("authToken").(string)
	return ok && token != ""
}

// ------------------ public pages ------------------

// PageController serves the public marketing pages.
type PageController struct {
	Service services.PortalServiceInterface
}

// NewPageController initializes a new instance of PageController
func NewPageController(service services.PortalServiceInterface) *PageController {
	return &PageController{Service: service}
}

// Health responds to load balancer health checks
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// Home renders the landing page
func (pc *PageController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Authenticated": isAuthenticated(c),
		"User":          sessionUser(c),
	})
}

// About renders the about page
func (pc *PageController) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{
		"Authenticated": isAuthenticated(c),
	})
}

// Sponsors renders the sponsors page
func (pc *PageController) Sponsors(c *gin.Context) {
	c.HTML(http.StatusOK, "sponsors.html", gin.H{
		"Authenticated": isAuthenticated(c),
	})
}

// ProblemStatements renders the public problem-statement catalog. The
// catalog fetch failing is not surfaced to the visitor; the page falls
// back to the static category grid.
func (pc *PageController) ProblemStatements(c *gin.Context) {
	statements, err := pc.Service.ProblemStatements()
	if err != nil {
		logger.Error.Printf("ProblemStatements: error fetching catalog: %v", err)
		statements = nil
	}

	c.HTML(http.StatusOK, "problems.html", gin.H{
		"Authenticated":     isAuthenticated(c),
		"ProblemStatements": statements,
	})
}
