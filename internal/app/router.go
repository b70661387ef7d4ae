package app

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kigongo-vincent/invai-backend/config"
	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/middleware"
	"github.com/kigongo-vincent/invai-backend/modules/Insight"
	"github.com/kigongo-vincent/invai-backend/modules/Notification"
	"github.com/kigongo-vincent/invai-backend/modules/Order"
	"github.com/kigongo-vincent/invai-backend/modules/Product"
	"github.com/kigongo-vincent/invai-backend/modules/Supplier"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP surface. Services must be wired first.
func NewRouter(cfg *config.Config, log logger.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log), middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/", apiRootHandler)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.App.MediaRoot != "" && cfg.App.MediaURL != "" {
		r.Static(cfg.App.MediaURL, cfg.App.MediaRoot)
	}

	User.RegisterRoutes(r.Group("/api/auth"))

	api := r.Group("/api")
	api.Use(User.AuthMiddleware())
	{
		Supplier.RegisterRoutes(api)
		Product.RegisterRoutes(api)
		Order.RegisterRoutes(api)
	}

	notifications := r.Group("/api/notifications")
	notifications.Use(User.AuthMiddleware())
	Notification.RegisterRoutes(notifications)

	Insight.RegisterRoutes(r.Group("/api/ai-insights"), User.AuthMiddleware())

	return r
}

func apiRootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "InvAI Backend API",
		"version": "1.0",
		"endpoints": gin.H{
			"auth": gin.H{
				"login":    "/api/auth/login/",
				"logout":   "/api/auth/logout/",
				"register": "/api/auth/register/",
				"users":    "/api/auth/users/",
			},
			"inventory": gin.H{
				"products":  "/api/products/",
				"suppliers": "/api/suppliers/",
				"orders":    "/api/orders/",
			},
			"ai_insights": gin.H{
				"generate": "/api/ai-insights/generate/",
				"status":   "/api/ai-insights/status/",
			},
			"notifications": gin.H{
				"list":        "/api/notifications/",
				"preferences": "/api/notifications/preferences/",
				"stream":      "/api/notifications/stream/",
			},
			"ops": gin.H{
				"health":  "/health",
				"metrics": "/metrics",
			},
		},
	})
}
