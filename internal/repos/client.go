package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Client, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Client, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, updates map[string]any) error
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (cr *clientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(clients) == 0 {
		return []*types.Client{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (cr *clientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Client
	if len(clientIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", clientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *clientRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Client
	if err := transaction.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("last_name asc, first_name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *clientRepo) UpdateFields(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Client{}).
		Where("id = ?", clientID).
		Updates(updates).Error
}
