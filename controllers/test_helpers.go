// file: controllers/test_helpers.go
//go:build unit
// +build unit

package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// setupTestRouter creates a new Gin engine with session middleware and fake HTML templates.
func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Set up sessions with cookie store.
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	// Create minimal templates to avoid panics during testing.
	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}

	// Use filepath.Join for cross-platform compatibility.
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))
	return router
}

// createDummyTemplates writes a set of minimal HTML templates to the provided directory.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"home.html":                  `<html><body>{{.}}</body></html>`,
		"about.html":                 `<html><body>{{.}}</body></html>`,
		"sponsors.html":              `<html><body>{{.}}</body></html>`,
		"problems.html":              `<html><body>{{.}}</body></html>`,
		"login.html":                 `<html><body>{{.Error}}</body></html>`,
		"signup.html":                `<html><body>{{.Error}}</body></html>`,
		"team_register.html":         `<html><body>rows={{len .Form.Rows}} err={{.Error}}</body></html>`,
		"team_register_success.html": `<html><body>registered {{.Team.TeamName}}</body></html>`,
		"team_details.html":          `<html><body>upload={{.ShowUpload}} qr={{.ShowQR}} status={{.Team.PaymentStatus}}</body></html>`,
		"team_none.html":             `<html><body>no team yet</body></html>`,
		"upload_result.html":         `<html><body>ok={{.Success}} err={{.Error}}</body></html>`,
		"profile.html":               `<html><body>tab={{.Tab}} ok={{.Success}} err={{.Error}}</body></html>`,
		"admin_login.html":           `<html><body>{{.Error}}</body></html>`,
		"admin_dashboard.html":       `<html><body>{{if .Error}}err={{.Error}}{{else}}teams={{len .Teams}} verified={{.Stats.VerifiedPayments}}{{end}}</body></html>`,
		"admin_password.html":        `<html><body>ok={{.Success}} err={{.Error}}</body></html>`,
	}

	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	// Create a helper route for setting session values.
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	// Call the helper route.
	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Extract and return the session cookie.
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "testsession" {
			return cookie
		}
	}
	return nil
}
