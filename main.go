// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"hackathon-portal/config"
	"hackathon-portal/controllers"
	"hackathon-portal/logger"
	"hackathon-portal/middleware"
	"hackathon-portal/services"
	"hackathon-portal/websocket"
)

func main() {
	cfg := config.Load()

	logger.SetLogLevel(cfg.Env)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the router
	router := gin.Default()

	// Health checks for the load balancer
	router.GET("/health", controllers.Health)

	// Pass these values to controllers or wherever needed
	controllers.SetConfig(cfg.ApplicationURL, cfg.Env)

	// Initialize session store
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("portalsession", store))

	// Determine the absolute path to the templates directory
	_, b, _, _ := runtime.Caller(0)
	basepath := filepath.Dir(b)
	templatesDir := filepath.Join(basepath, "templates", "*.html")

	// Load HTML templates
	fmt.Println("Templates Path:", templatesDir)
	router.LoadHTMLGlob(templatesDir)

	// Serve static files under /static
	router.Static("/static", "./static")

	// Serve favicon.ico
	router.GET("/favicon.ico", func(c *gin.Context) {
		c.File("./static/img/favicon.ico")
	})

	// Wire up services and controllers
	portalService := services.NewPortalService(cfg.APIBaseURL)
	dashboardService := services.NewDashboardService()

	pageController := controllers.NewPageController(portalService)
	authController := controllers.NewAuthController(portalService)
	teamController := controllers.NewTeamController(portalService)
	profileController := controllers.NewProfileController(portalService)
	adminController := controllers.NewAdminController(portalService, dashboardService)

	// Public routes
	router.GET("/", pageController.Home)
	router.GET("/about", pageController.About)
	router.GET("/problems", pageController.ProblemStatements)
	router.GET("/sponsors", pageController.Sponsors)
	router.GET("/login", authController.ShowLoginPage)
	router.POST("/login", authController.PerformLogin)
	router.GET("/signup", authController.ShowSignupPage)
	router.POST("/signup", authController.PerformSignup)
	router.GET("/logout", authController.Logout)

	// Participant routes
	protected := router.Group("/", middleware.AuthRequired)
	{
		protected.GET("/team/register", teamController.ShowRegisterForm)
		protected.POST("/team/register", teamController.HandleRegisterForm)
		protected.GET("/team/details", teamController.TeamDetails)
		protected.POST("/team/upload", teamController.UploadPayment)
		protected.GET("/team/qrcode", teamController.TeamQRCode)
		protected.GET("/profile", profileController.ShowProfile)
		protected.POST("/profile", profileController.UpdateProfile)
		protected.POST("/profile/password", profileController.ChangePassword)
	}

	// Admin routes
	router.GET("/admin/login", adminController.ShowAdminLogin)
	router.POST("/admin/login", adminController.PerformAdminLogin)

	admin := router.Group("/admin", middleware.AdminRequired())
	{
		admin.GET("/home", adminController.ShowDashboard)
		admin.POST("/teams/:id/payment-status", adminController.UpdatePaymentStatus)
		admin.GET("/password", adminController.ShowAdminPassword)
		admin.POST("/password", adminController.ChangeAdminPassword)
		admin.GET("/logout", adminController.AdminLogout)
		admin.GET("/feed", adminController.AdminFeed)
	}

	// Start the WebSocket handler
	go websocket.HandleMessages()

	// Start the server
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
