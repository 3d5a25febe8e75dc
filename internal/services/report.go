package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/report/markdownconv"
	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
	"github.com/brightsteps/sessionscribe-backend/internal/repos"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

// ReportService persists generated reports and walks them through the
// draft -> submitted -> reviewed lifecycle. The in-memory wizard draft is
// only discarded after the report row is safely stored; a storage failure
// leaves the draft intact so nothing the clinician entered is lost.
type ReportService interface {
	SaveFromDraft(ctx context.Context, draftID uuid.UUID) (*types.SessionReport, error)
	ListReports(ctx context.Context) ([]*types.SessionReport, error)
	ListReportsByClient(ctx context.Context, clientID uuid.UUID) ([]*types.SessionReport, error)
	GetReport(ctx context.Context, reportID uuid.UUID) (*types.SessionReport, error)
	UpdateContent(ctx context.Context, reportID uuid.UUID, fullContent string) (*types.SessionReport, error)
	SubmitReport(ctx context.Context, reportID uuid.UUID) (*types.SessionReport, error)
	ReviewReport(ctx context.Context, reportID uuid.UUID) (*types.SessionReport, error)

	// Rich-text conversion for the report editor.
	ToRichText(markdown string) string
	ToMarkdown(richText string) string
}

type reportService struct {
	db         *gorm.DB
	log        *logger.Logger
	reportRepo repos.SessionReportRepo
	drafts     *wizard.Store
	converter  *markdownconv.Converter
	bus        SSEBus
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	reportRepo repos.SessionReportRepo,
	drafts *wizard.Store,
	converter *markdownconv.Converter,
	bus SSEBus,
) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		db:         db,
		log:        serviceLog,
		reportRepo: reportRepo,
		drafts:     drafts,
		converter:  converter,
		bus:        bus,
	}
}

func (rs *reportService) SaveFromDraft(ctx context.Context, draftID uuid.UUID) (*types.SessionReport, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	draft, err := rs.drafts.Get(rd.UserID, draftID)
	if err != nil {
		return nil, err
	}
	generated := draft.Generated()
	if generated == nil {
		return nil, fmt.Errorf("draft has no generated report to save")
	}

	sectionsJSON, mErr := json.Marshal(generated.Sections)
	if mErr != nil {
		return nil, fmt.Errorf("failed to encode report sections: %w", mErr)
	}

	state := draft.Snapshot()
	row := &types.SessionReport{
		ID:              uuid.New(),
		UserID:          rd.UserID,
		ClientID:        state.BasicInfo.ClientID,
		ClientName:      generated.Metadata.ClientName,
		RBTName:         generated.Metadata.RBTName,
		SessionDate:     generated.Metadata.SessionDate,
		SessionDuration: generated.Metadata.SessionDuration,
		Location:        generated.Metadata.Location,
		FullContent:     generated.FullContent,
		Sections:        datatypes.JSON(sectionsJSON),
		Status:          types.ReportStatusDraft,
	}

	created, cErr := rs.reportRepo.Create(ctx, nil, []*types.SessionReport{row})
	if cErr != nil {
		rs.log.Warn("Failed to persist report; keeping wizard draft", "draft_id", draftID, "error", cErr)
		return nil, fmt.Errorf("failed to save report: %w", cErr)
	}

	rs.drafts.Discard(draftID)
	return created[0], nil
}

func (rs *reportService) ListReports(ctx context.Context) ([]*types.SessionReport, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	reports, err := rs.reportRepo.ListByUser(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (rs *reportService) ListReportsByClient(ctx context.Context, clientID uuid.UUID) ([]*types.SessionReport, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	reports, err := rs.reportRepo.ListByClient(ctx, nil, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	// Client rows are owner-scoped, but filter defensively anyway.
	out := reports[:0]
	for _, r := range reports {
		if r.UserID == rd.UserID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (rs *reportService) GetReport(ctx context.Context, reportID uuid.UUID) (*types.SessionReport, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	found, err := rs.reportRepo.GetByIDs(ctx, nil, []uuid.UUID{reportID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	if len(found) == 0 || found[0] == nil || found[0].UserID != rd.UserID {
		return nil, fmt.Errorf("report not found")
	}
	return found[0], nil
}

func (rs *reportService) UpdateContent(ctx context.Context, reportID uuid.UUID, fullContent string) (*types.SessionReport, error) {
	report, err := rs.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != types.ReportStatusDraft {
		return nil, fmt.Errorf("only draft reports can be edited")
	}
	updates := map[string]any{
		"full_content": fullContent,
		"updated_at":   time.Now(),
	}
	if uErr := rs.reportRepo.UpdateFields(ctx, nil, reportID, updates); uErr != nil {
		return nil, fmt.Errorf("failed to update report content: %w", uErr)
	}
	return rs.GetReport(ctx, reportID)
}

func (rs *reportService) SubmitReport(ctx context.Context, reportID uuid.UUID) (*types.SessionReport, error) {
	report, err := rs.transition(ctx, reportID, types.ReportStatusSubmitted, "submitted_at")
	if err != nil {
		return nil, err
	}
	rs.publishStatus(ctx, report, sse.SSEEventReportSubmitted)
	return report, nil
}

func (rs *reportService) ReviewReport(ctx context.Context, reportID uuid.UUID) (*types.SessionReport, error) {
	report, err := rs.transition(ctx, reportID, types.ReportStatusReviewed, "reviewed_at")
	if err != nil {
		return nil, err
	}
	rs.publishStatus(ctx, report, sse.SSEEventReportReviewed)
	return report, nil
}

func (rs *reportService) transition(ctx context.Context, reportID uuid.UUID, next types.ReportStatus, timestampColumn string) (*types.SessionReport, error) {
	report, err := rs.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("cannot move report from %s to %s", report.Status, next)
	}
	now := time.Now()
	updates := map[string]any{
		"status":          next,
		timestampColumn:   now,
		"updated_at":      now,
	}
	if uErr := rs.reportRepo.UpdateFields(ctx, nil, reportID, updates); uErr != nil {
		return nil, fmt.Errorf("failed to update report status: %w", uErr)
	}
	return rs.GetReport(ctx, reportID)
}

func (rs *reportService) publishStatus(ctx context.Context, report *types.SessionReport, event sse.SSEEvent) {
	if rs.bus == nil {
		return
	}
	msg := sse.SSEMessage{
		Channel: sse.ReportChannel(report.ID),
		Event:   event,
		Data: map[string]any{
			"report_id": report.ID,
			"status":    report.Status,
		},
	}
	if err := rs.bus.Publish(ctx, msg); err != nil {
		rs.log.Warn("Failed to publish report status event", "report_id", report.ID, "error", err)
	}
}

func (rs *reportService) ToRichText(markdown string) string {
	return rs.converter.MarkdownToRich(markdown)
}

func (rs *reportService) ToMarkdown(richText string) string {
	return rs.converter.RichToMarkdown(richText)
}
