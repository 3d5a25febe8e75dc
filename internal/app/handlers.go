package app

import (
	"github.com/brightsteps/sessionscribe-backend/internal/handlers"
	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Client *handlers.ClientHandler
	Wizard *handlers.WizardHandler
	Report *handlers.ReportHandler
	SSE    *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, sseHub *sse.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:   handlers.NewAuthHandler(serviceset.Auth),
		User:   handlers.NewUserHandler(serviceset.User),
		Client: handlers.NewClientHandler(serviceset.Client, serviceset.Report),
		Wizard: handlers.NewWizardHandler(serviceset.Wizard, serviceset.Generation, serviceset.Report),
		Report: handlers.NewReportHandler(serviceset.Report),
		SSE:    handlers.NewSSEHandler(log, sseHub),
	}
}
