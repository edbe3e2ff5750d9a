// Package controllers handles user authentication and session management.
// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hackathon-portal/logger"
	"hackathon-portal/models"
	"hackathon-portal/services"
)

// AuthController exchanges participant credentials with the portal API
// and manages the session that holds the issued token.
type AuthController struct {
	Service services.PortalServiceInterface
}

// NewAuthController initializes a new instance of AuthController
func NewAuthController(service services.PortalServiceInterface) *AuthController {
	return &AuthController{Service: service}
}

// ------------------ login handling ------------------

// ShowLoginPage renders the login form.
func (ac *AuthController) ShowLoginPage(c *gin.Context) {
	if isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// PerformLogin authenticates the participant against the portal API and
// stores the issued token + user record in the session.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		logger.Warn.Println("PerformLogin: Missing email or password")
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Please fill in all fields.",
			"Email": email,
		})
		return
	}

	result, err := ac.Service.Login(email, password)
	if err != nil {
		logger.Warn.Printf("PerformLogin: Login failed for %s: %v", email, err)
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": loginErrorMessage(err),
			"Email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("authToken", result.Token)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformLogin: Failed to save session:", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Internal error, please try again.",
		})
		return
	}
	if err := saveSessionUser(c, &result.User); err != nil {
		logger.Error.Println("PerformLogin: Failed to store user in session:", err)
	}

	logger.Info.Printf("PerformLogin: User %s authenticated", email)
	c.Redirect(http.StatusFound, "/")
}

// loginErrorMessage surfaces the API error body, with a generic fallback
// for transport failures.
func loginErrorMessage(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, services.ErrUnauthorized) {
		return "Invalid email or password."
	}
	return "Login failed, please try again later."
}

// ------------------ signup handling ------------------

// ShowSignupPage renders the signup form.
func (ac *AuthController) ShowSignupPage(c *gin.Context) {
	if isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "signup.html", gin.H{"Form": models.SignupRequest{}})
}

// PerformSignup validates the signup form locally, creates the account
// via the portal API, and logs the new participant in.
func (ac *AuthController) PerformSignup(c *gin.Context) {
	form := models.SignupRequest{
		Name:               c.PostForm("name"),
		Email:              c.PostForm("email"),
		Password:           c.PostForm("password"),
		RegistrationNumber: c.PostForm("registrationNumber"),
		Phone:              c.PostForm("phone"),
		University:         c.PostForm("university"),
		Course:             c.PostForm("course"),
		Year:               c.PostForm("year"),
	}
	confirmPassword := c.PostForm("confirmPassword")

	renderError := func(message string) {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Error": message,
			"Form":  form,
		})
	}

	if form.Name == "" || form.Email == "" || form.Password == "" || form.RegistrationNumber == "" {
		renderError("Please fill in all required fields.")
		return
	}
	if !models.ValidEmail(form.Email) {
		renderError("Invalid email format: " + form.Email)
		return
	}
	if form.Password != confirmPassword {
		renderError("Passwords do not match")
		return
	}
	if len(form.Password) < 6 {
		renderError("Password must be at least 6 characters long")
		return
	}

	result, err := ac.Service.Signup(form)
	if err != nil {
		logger.Warn.Printf("PerformSignup: Signup failed for %s: %v", form.Email, err)
		var apiErr *services.APIError
		if errors.As(err, &apiErr) {
			renderError(apiErr.Error())
		} else {
			renderError("Failed to create account, please try again later.")
		}
		return
	}

	session := sessions.Default(c)
	session.Set("authToken", result.Token)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformSignup: Failed to save session:", err)
	}
	if err := saveSessionUser(c, &result.User); err != nil {
		logger.Error.Println("PerformSignup: Failed to store user in session:", err)
	}

	logger.Info.Printf("PerformSignup: Account created for %s", form.Email)
	c.Redirect(http.StatusFound, "/team/register")
}

// ------------------ logout ------------------

// Logout discards the local session. The token itself is merely dropped;
// there is no server-side invalidation call.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("user")
	if user != nil {
		logger.Info.Println("Logout: Logging out participant")
	}

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: Error saving session during logout: %v", err)
	}

	c.Redirect(http.StatusFound, "/login")
}
