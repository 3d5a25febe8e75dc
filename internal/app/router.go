package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brightsteps/sessionscribe-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthHandler:    handlerset.Auth,
		AuthMiddleware: mw.Auth,
		UserHandler:    handlerset.User,
		ClientHandler:  handlerset.Client,
		WizardHandler:  handlerset.Wizard,
		ReportHandler:  handlerset.Report,
		SSEHandler:     handlerset.SSE,
	})
}
