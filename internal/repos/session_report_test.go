package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

// The production schema rides on postgres defaults (uuid_generate_v4), so
// the sqlite test schema is spelled out by hand. IDs are always set in Go.
const sessionReportDDL = `CREATE TABLE session_report (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	client_id TEXT NOT NULL,
	client_name TEXT NOT NULL,
	rbt_name TEXT NOT NULL,
	session_date TEXT NOT NULL,
	session_duration TEXT,
	location TEXT,
	full_content TEXT NOT NULL,
	sections TEXT,
	status TEXT NOT NULL DEFAULT 'draft',
	submitted_at DATETIME,
	reviewed_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME
)`

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Exec(sessionReportDDL).Error; err != nil {
		t.Fatal(err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func sampleReport(userID, clientID uuid.UUID) *types.SessionReport {
	return &types.SessionReport{
		ID:              uuid.New(),
		UserID:          userID,
		ClientID:        clientID,
		ClientName:      "Jane Doe",
		RBTName:         "John Smith, RBT",
		SessionDate:     "2026-04-01",
		SessionDuration: "1 hour 30 minutes",
		Location:        "Clinic",
		FullContent:     "Summary\nGood session.",
		Status:          types.ReportStatusDraft,
	}
}

func TestSessionReportRepoCreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewSessionReportRepo(db, testLogger(t))
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	report := sampleReport(userID, clientID)

	if _, err := repo.Create(ctx, nil, []*types.SessionReport{report}); err != nil {
		t.Fatal(err)
	}

	found, err := repo.GetByIDs(ctx, nil, []uuid.UUID{report.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 report, got %d", len(found))
	}
	if found[0].ClientName != "Jane Doe" || found[0].Status != types.ReportStatusDraft {
		t.Fatalf("unexpected row: %+v", found[0])
	}
}

func TestSessionReportRepoListByUserAndClient(t *testing.T) {
	db := testDB(t)
	repo := NewSessionReportRepo(db, testLogger(t))
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()
	clientID := uuid.New()

	reports := []*types.SessionReport{
		sampleReport(userA, clientID),
		sampleReport(userA, uuid.New()),
		sampleReport(userB, clientID),
	}
	if _, err := repo.Create(ctx, nil, reports); err != nil {
		t.Fatal(err)
	}

	byUser, err := repo.ListByUser(ctx, nil, userA)
	if err != nil {
		t.Fatal(err)
	}
	if len(byUser) != 2 {
		t.Fatalf("expected 2 reports for user, got %d", len(byUser))
	}

	byClient, err := repo.ListByClient(ctx, nil, clientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(byClient) != 2 {
		t.Fatalf("expected 2 reports for client, got %d", len(byClient))
	}
}

func TestSessionReportRepoUpdateFields(t *testing.T) {
	db := testDB(t)
	repo := NewSessionReportRepo(db, testLogger(t))
	ctx := context.Background()

	report := sampleReport(uuid.New(), uuid.New())
	if _, err := repo.Create(ctx, nil, []*types.SessionReport{report}); err != nil {
		t.Fatal(err)
	}

	updates := map[string]any{"status": types.ReportStatusSubmitted}
	if err := repo.UpdateFields(ctx, nil, report.ID, updates); err != nil {
		t.Fatal(err)
	}

	found, err := repo.GetByIDs(ctx, nil, []uuid.UUID{report.ID})
	if err != nil {
		t.Fatal(err)
	}
	if found[0].Status != types.ReportStatusSubmitted {
		t.Fatalf("status = %q, want submitted", found[0].Status)
	}
}

func TestSessionReportRepoEmptyInputs(t *testing.T) {
	db := testDB(t)
	repo := NewSessionReportRepo(db, testLogger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no rows, got %d", len(created))
	}

	found, err := repo.GetByIDs(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no rows, got %d", len(found))
	}
}
