// Package controllers file: controllers/profile_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hackathon-portal/logger"
	"hackathon-portal/models"
	"hackathon-portal/services"
)

// ProfileController lets a participant update their account details and
// change their password.
type ProfileController struct {
	Service services.PortalServiceInterface
}

// NewProfileController initializes a new instance of ProfileController
func NewProfileController(service services.PortalServiceInterface) *ProfileController {
	return &ProfileController{Service: service}
}

// renderProfile renders the profile page on the given tab.
func (pc *ProfileController) renderProfile(c *gin.Context, status int, tab string, data gin.H) {
	data["Authenticated"] = true
	data["User"] = sessionUser(c)
	data["Tab"] = tab
	c.HTML(status, "profile.html", data)
}

// ShowProfile renders the profile page. The active tab comes from the
// query string so the password tab survives a redirect.
func (pc *ProfileController) ShowProfile(c *gin.Context) {
	tab := c.DefaultQuery("tab", "profile")
	if tab != "profile" && tab != "password" {
		tab = "profile"
	}
	pc.renderProfile(c, http.StatusOK, tab, gin.H{})
}

// UpdateProfile saves the edited account fields through the portal API
// and refreshes the session copy of the user record.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	update := models.ProfileUpdate{
		Name:       c.PostForm("name"),
		Phone:      c.PostForm("phone"),
		University: c.PostForm("university"),
		Course:     c.PostForm("course"),
		Year:       c.PostForm("year"),
	}

	if update.Name == "" {
		pc.renderProfile(c, http.StatusBadRequest, "profile", gin.H{
			"Error": "Name cannot be empty.",
		})
		return
	}

	user, err := pc.Service.UpdateProfile(sessionToken(c), update)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/login")
			return
		}
		logger.Error.Printf("UpdateProfile: error updating profile: %v", err)
		pc.renderProfile(c, http.StatusBadRequest, "profile", gin.H{
			"Error": profileErrorMessage(err, "Failed to update profile"),
		})
		return
	}

	if err := saveSessionUser(c, user); err != nil {
		logger.Error.Printf("UpdateProfile: failed to refresh session user: %v", err)
	}

	logger.Info.Printf("UpdateProfile: profile updated for %s", user.Email)
	pc.renderProfile(c, http.StatusOK, "profile", gin.H{
		"Success": "Profile updated successfully!",
	})
}

// ChangePassword validates and submits a password change.
func (pc *ProfileController) ChangePassword(c *gin.Context) {
	current := c.PostForm("currentPassword")
	newPassword := c.PostForm("newPassword")
	confirm := c.PostForm("confirmPassword")

	renderError := func(message string) {
		pc.renderProfile(c, http.StatusBadRequest, "password", gin.H{"Error": message})
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

	if err := pc.Service.ChangeUserPassword(sessionToken(c), current, newPassword); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/login")
			return
		}
		logger.Warn.Printf("ChangePassword: password change failed: %v", err)
		renderError(profileErrorMessage(err, "Failed to change password"))
		return
	}

	logger.Info.Println("ChangePassword: password changed")
	pc.renderProfile(c, http.StatusOK, "password", gin.H{
		"Success": "Password changed successfully!",
	})
}

// profileErrorMessage prefers the API error body over the fallback text.
func profileErrorMessage(err error, fallback string) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return fallback
}
