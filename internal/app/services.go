package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/platform/openai"
	"github.com/brightsteps/sessionscribe-backend/internal/report/markdownconv"
	"github.com/brightsteps/sessionscribe-backend/internal/report/sections"
	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
	"github.com/brightsteps/sessionscribe-backend/internal/services"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Client     services.ClientService
	Wizard     services.WizardService
	Generation services.GenerationService
	Report     services.ReportService

	SSEBus services.SSEBus
	Drafts *wizard.Store
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, sseHub *sse.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log,
		reposet.User,
		reposet.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	userService := services.NewUserService(db, log, reposet.User)
	clientService := services.NewClientService(db, log, reposet.Client)

	var bus services.SSEBus
	if cfg.RedisAddr != "" {
		redisBus, err := services.NewRedisSSEBus(log)
		if err != nil {
			return Services{}, fmt.Errorf("init redis sse bus: %w", err)
		}
		bus = redisBus
	} else {
		log.Info("REDIS_ADDR not set; SSE events stay in-process")
		bus = services.NewLocalSSEBus(sseHub)
	}

	drafts := wizard.NewStore()
	wizardService := services.NewWizardService(log, drafts)

	textClient, err := openai.NewClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init openai client: %w", err)
	}

	generationService := services.NewGenerationService(
		log,
		drafts,
		clientService,
		userService,
		textClient,
		sections.NewHeadingParser(),
		bus,
	)

	converter := markdownconv.New()
	reportService := services.NewReportService(db, log, reposet.SessionReport, drafts, converter, bus)

	return Services{
		Auth:       authService,
		User:       userService,
		Client:     clientService,
		Wizard:     wizardService,
		Generation: generationService,
		Report:     reportService,
		SSEBus:     bus,
		Drafts:     drafts,
	}, nil
}
