package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/repos"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

// ClientService manages the clinician's caseload directory. Every lookup is
// scoped to the signed-in user; a client belonging to someone else is
// indistinguishable from a missing one.
type ClientService interface {
	CreateClient(ctx context.Context, client *types.Client) (*types.Client, error)
	ListClients(ctx context.Context) ([]*types.Client, error)
	GetClient(ctx context.Context, clientID uuid.UUID) (*types.Client, error)
	UpdateClient(ctx context.Context, clientID uuid.UUID, updates map[string]any) (*types.Client, error)
}

type clientService struct {
	db         *gorm.DB
	log        *logger.Logger
	clientRepo repos.ClientRepo
}

func NewClientService(db *gorm.DB, log *logger.Logger, clientRepo repos.ClientRepo) ClientService {
	serviceLog := log.With("service", "ClientService")
	return &clientService{
		db:         db,
		log:        serviceLog,
		clientRepo: clientRepo,
	}
}

var clientUpdatableFields = map[string]bool{
	"first_name":      true,
	"last_name":       true,
	"guardian_name":   true,
	"diagnosis_notes": true,
	"active":          true,
}

func (cs *clientService) CreateClient(ctx context.Context, client *types.Client) (*types.Client, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	client.FirstName = strings.TrimSpace(client.FirstName)
	client.LastName = strings.TrimSpace(client.LastName)
	if client.FirstName == "" {
		return nil, fmt.Errorf("client first name required")
	}
	client.ID = uuid.New()
	client.OwnerUserID = rd.UserID
	client.Active = true

	created, err := cs.clientRepo.Create(ctx, nil, []*types.Client{client})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return created[0], nil
}

func (cs *clientService) ListClients(ctx context.Context) ([]*types.Client, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	clients, err := cs.clientRepo.ListByOwner(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (cs *clientService) GetClient(ctx context.Context, clientID uuid.UUID) (*types.Client, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	found, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	if len(found) == 0 || found[0] == nil || found[0].OwnerUserID != rd.UserID {
		return nil, fmt.Errorf("client not found")
	}
	return found[0], nil
}

func (cs *clientService) UpdateClient(ctx context.Context, clientID uuid.UUID, updates map[string]any) (*types.Client, error) {
	if _, err := cs.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	filtered := map[string]any{}
	for k, v := range updates {
		if clientUpdatableFields[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	if err := cs.clientRepo.UpdateFields(ctx, nil, clientID, filtered); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return cs.GetClient(ctx, clientID)
}
