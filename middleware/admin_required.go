// Package middleware description is Middleware that checks for an admin session.
// file: middleware/admin_required.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hackathon-portal/logger"
)

// AdminRequired checks that an admin token is present in the session
// before any dashboard data is fetched. Absence redirects to the admin
// login page.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, ok := session.Get("adminToken").(string)

		logger.Debug.Printf("AdminRequired Middleware - tokenPresent=%v", ok && token != "")

		if !ok || token == "" {
			logger.Warn.Println("AdminRequired Middleware - unauthenticated attempt blocked")
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		c.Next()
	}
}
