package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/brightsteps/sessionscribe-backend/internal/handlers"
	"github.com/brightsteps/sessionscribe-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string

	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	ClientHandler  *handlers.ClientHandler
	WizardHandler  *handlers.WizardHandler
	ReportHandler  *handlers.ReportHandler
	SSEHandler     *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Clients
	protected.POST("/clients", cfg.ClientHandler.Create)
	protected.GET("/clients", cfg.ClientHandler.List)
	protected.GET("/clients/:id", cfg.ClientHandler.Get)
	protected.PATCH("/clients/:id", cfg.ClientHandler.Update)
	protected.GET("/clients/:id/reports", cfg.ClientHandler.ListReports)
	// Wizard drafts
	protected.POST("/drafts", cfg.WizardHandler.Open)
	protected.GET("/drafts/:id", cfg.WizardHandler.Get)
	protected.PUT("/drafts/:id/section", cfg.WizardHandler.UpdateSection)
	protected.POST("/drafts/:id/advance", cfg.WizardHandler.Advance)
	protected.POST("/drafts/:id/retreat", cfg.WizardHandler.Retreat)
	protected.POST("/drafts/:id/reset", cfg.WizardHandler.Reset)
	protected.DELETE("/drafts/:id", cfg.WizardHandler.Discard)
	protected.POST("/drafts/:id/generate", cfg.WizardHandler.Generate)
	protected.POST("/drafts/:id/generate/cancel", cfg.WizardHandler.CancelGeneration)
	protected.POST("/drafts/:id/save", cfg.WizardHandler.Save)
	// Reports
	protected.GET("/reports", cfg.ReportHandler.List)
	protected.GET("/reports/:id", cfg.ReportHandler.Get)
	protected.PATCH("/reports/:id/content", cfg.ReportHandler.UpdateContent)
	protected.POST("/reports/:id/submit", cfg.ReportHandler.Submit)
	protected.POST("/reports/:id/review", cfg.ReportHandler.Review)
	protected.POST("/reports/convert", cfg.ReportHandler.Convert)

	return router
}
