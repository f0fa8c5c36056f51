package routes

import (
	"fmt"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/controllers"
	"github.com/adarshh12/grocery-inventory/middleware"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/adarshh12/grocery-inventory/templates"
	"github.com/adarshh12/grocery-inventory/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the Gin engine with every page and API route.
// A memory-backed session service is installed when none is set.
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	if err := utils.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	sessions := services.GetSessionService()
	if sessions == nil {
		sessions = services.NewSessionService(cfg.SessionSecret, cfg.SessionTTL, services.NewMemorySessionStore())
		services.SetSessionService(sessions)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// Public pages
	optional := middleware.OptionalSession(sessions)
	router.GET("/", optional, controllers.Dashboard)
	router.GET("/register/", optional, controllers.ShowRegister)
	router.POST("/register/", controllers.Register)
	router.GET("/login/", optional, controllers.ShowLogin)
	router.POST("/login/", middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst).Limit(), controllers.Login)

	// Any logged-in user
	authed := router.Group("/", middleware.RequireSession(sessions))
	{
		authed.GET("/logout/", controllers.Logout)
		authed.POST("/logout/", controllers.Logout)
		authed.GET("/user-dashboard/", controllers.UserDashboard)
		authed.POST("/user-dashboard/", controllers.UserDashboardOrder)
		authed.GET("/orders/create/", controllers.ShowOrderForm)
		authed.POST("/orders/create/", controllers.CreateOrder)
	}

	// Administrators only
	admin := authed.Group("/", middleware.RequireAdmin())
	{
		admin.GET("/products/", controllers.ListProducts)
		admin.GET("/products/create/", controllers.ShowCreateProduct)
		admin.POST("/products/create/", controllers.CreateProduct)
		admin.GET("/products/edit/:id/", controllers.ShowEditProduct)
		admin.POST("/products/edit/:id/", controllers.UpdateProduct)
		admin.GET("/products/delete/:id/", controllers.ConfirmDeleteProduct)
		admin.POST("/products/delete/:id/", controllers.DeleteProduct)
		admin.GET("/alerts/", controllers.StockAlerts)
		admin.GET("/report/", controllers.GenerateReport)
		admin.POST("/report/", controllers.GenerateReport)
	}

	// API v1 routes
	v1 := router.Group("/api/v1", cors.New(corsConfig(cfg)))
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)
	}

	router.NoRoute(controllers.NotFound)

	return router, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsCfg.ExposeHeaders = []string{"X-Request-ID"}
	return corsCfg
}
