package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

type SessionReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reports []*types.SessionReport) ([]*types.SessionReport, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, reportIDs []uuid.UUID) ([]*types.SessionReport, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SessionReport, error)
	ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.SessionReport, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, reportID uuid.UUID, updates map[string]any) error
}

type sessionReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionReportRepo(db *gorm.DB, baseLog *logger.Logger) SessionReportRepo {
	return &sessionReportRepo{db: db, log: baseLog.With("repo", "SessionReportRepo")}
}

func (srr *sessionReportRepo) Create(ctx context.Context, tx *gorm.DB, reports []*types.SessionReport) ([]*types.SessionReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = srr.db
	}
	if len(reports) == 0 {
		return []*types.SessionReport{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (srr *sessionReportRepo) GetByIDs(ctx context.Context, tx *gorm.DB, reportIDs []uuid.UUID) ([]*types.SessionReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = srr.db
	}
	var results []*types.SessionReport
	if len(reportIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", reportIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (srr *sessionReportRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SessionReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = srr.db
	}
	var results []*types.SessionReport
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (srr *sessionReportRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.SessionReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = srr.db
	}
	var results []*types.SessionReport
	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (srr *sessionReportRepo) UpdateFields(ctx context.Context, tx *gorm.DB, reportID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = srr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.SessionReport{}).
		Where("id = ?", reportID).
		Updates(updates).Error
}
