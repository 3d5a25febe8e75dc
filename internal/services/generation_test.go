package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/report/sections"
	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

type fakeTextClient struct {
	text      string
	deltas    []string
	blockCtx  bool
	callCount int
	mu        sync.Mutex
}

func (f *fakeTextClient) GenerateText(_ context.Context, _, _ string) (string, error) {
	return f.text, nil
}

func (f *fakeTextClient) StreamText(ctx context.Context, _, _ string, onDelta func(string)) (string, error) {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()
	if f.blockCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	for _, d := range f.deltas {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		onDelta(d)
	}
	return f.text, nil
}

type fakeBus struct {
	msgs chan sse.SSEMessage
}

func newFakeBus() *fakeBus {
	return &fakeBus{msgs: make(chan sse.SSEMessage, 64)}
}

func (b *fakeBus) Publish(_ context.Context, msg sse.SSEMessage) error {
	b.msgs <- msg
	return nil
}

func (b *fakeBus) StartForwarder(_ context.Context, _ func(sse.SSEMessage)) error { return nil }
func (b *fakeBus) Close() error                                                  { return nil }

func (b *fakeBus) waitFor(t *testing.T, event sse.SSEEvent) sse.SSEMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-b.msgs:
			if msg.Event == event {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

type fakeClientService struct {
	client *types.Client
}

func (f *fakeClientService) CreateClient(_ context.Context, c *types.Client) (*types.Client, error) {
	return c, nil
}
func (f *fakeClientService) ListClients(_ context.Context) ([]*types.Client, error) {
	return []*types.Client{f.client}, nil
}
func (f *fakeClientService) GetClient(_ context.Context, _ uuid.UUID) (*types.Client, error) {
	return f.client, nil
}
func (f *fakeClientService) UpdateClient(_ context.Context, _ uuid.UUID, _ map[string]any) (*types.Client, error) {
	return f.client, nil
}

type fakeUserService struct {
	user *types.User
}

func (f *fakeUserService) GetMe(_ context.Context) (*types.User, error) {
	return f.user, nil
}

func generationFixture(t *testing.T, textClient *fakeTextClient) (GenerationService, *wizard.Store, *wizard.Draft, *fakeBus, context.Context) {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatal(err)
	}

	userID := uuid.New()
	clientID := uuid.New()
	drafts := wizard.NewStore()
	draft, err := drafts.Open(userID, wizard.FlowStructured)
	if err != nil {
		t.Fatal(err)
	}
	if uErr := draft.Update(func(c *wizard.Controller) error {
		return c.UpdateSection(wizard.BasicInfoUpdate{Data: wizard.BasicInfo{
			SessionDate: "2026-04-01",
			StartTime:   "09:00",
			EndTime:     "10:30",
			Location:    "Clinic",
			ClientID:    clientID,
		}})
	}); uErr != nil {
		t.Fatal(uErr)
	}

	bus := newFakeBus()
	svc := NewGenerationService(
		log,
		drafts,
		&fakeClientService{client: &types.Client{ID: clientID, OwnerUserID: userID, FirstName: "Jane", LastName: "Doe"}},
		&fakeUserService{user: &types.User{ID: userID, FirstName: "John", LastName: "Smith", Credential: "RBT"}},
		textClient,
		sections.NewHeadingParser(),
		bus,
	)

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
	return svc, drafts, draft, bus, ctx
}

func TestGenerateStreamsAndStoresResult(t *testing.T) {
	fullText := strings.Join([]string{
		"Summary",
		"Productive session overall.",
		"Next Steps",
		"Add two targets.",
	}, "\n")
	textClient := &fakeTextClient{text: fullText, deltas: []string{"Productive ", "session."}}
	svc, _, draft, bus, ctx := generationFixture(t, textClient)

	if err := svc.Generate(ctx, draft.ID); err != nil {
		t.Fatal(err)
	}

	bus.waitFor(t, sse.SSEEventGenerationStarted)
	bus.waitFor(t, sse.SSEEventGenerationDelta)
	bus.waitFor(t, sse.SSEEventGenerationCompleted)

	generated := draft.Generated()
	if generated == nil {
		t.Fatal("draft has no generated report")
	}
	if generated.FullContent != fullText {
		t.Fatalf("full content = %q", generated.FullContent)
	}
	if generated.Sections[sections.SectionSummary] != "Productive session overall." {
		t.Fatalf("summary section = %q", generated.Sections[sections.SectionSummary])
	}
	if generated.Sections[sections.SectionReinforcement] != sections.Fallback(sections.SectionReinforcement) {
		t.Fatal("missing section did not fall back to placeholder")
	}
	if generated.Metadata.ClientName != "Jane Doe" {
		t.Fatalf("client name = %q", generated.Metadata.ClientName)
	}
	if generated.Metadata.RBTName != "John Smith, RBT" {
		t.Fatalf("rbt name = %q", generated.Metadata.RBTName)
	}
	if generated.Metadata.SessionDuration != "1 hour 30 minutes" {
		t.Fatalf("duration = %q", generated.Metadata.SessionDuration)
	}
}

func TestCancelClearsPartialState(t *testing.T) {
	textClient := &fakeTextClient{blockCtx: true}
	svc, _, draft, bus, ctx := generationFixture(t, textClient)

	if err := svc.Generate(ctx, draft.ID); err != nil {
		t.Fatal(err)
	}
	bus.waitFor(t, sse.SSEEventGenerationStarted)

	if err := svc.Cancel(ctx, draft.ID); err != nil {
		t.Fatal(err)
	}
	bus.waitFor(t, sse.SSEEventGenerationCanceled)

	if draft.Generated() != nil {
		t.Fatal("canceled attempt left generated state behind")
	}
}

func TestRetryStartsFresh(t *testing.T) {
	fullText := "Summary\nSecond attempt content."
	textClient := &fakeTextClient{text: fullText}
	svc, _, draft, bus, ctx := generationFixture(t, textClient)

	if err := svc.Generate(ctx, draft.ID); err != nil {
		t.Fatal(err)
	}
	bus.waitFor(t, sse.SSEEventGenerationCompleted)
	if draft.Generated() == nil {
		t.Fatal("first attempt produced nothing")
	}

	if err := svc.Generate(ctx, draft.ID); err != nil {
		t.Fatal(err)
	}
	bus.waitFor(t, sse.SSEEventGenerationCompleted)

	generated := draft.Generated()
	if generated == nil {
		t.Fatal("second attempt produced nothing")
	}
	if generated.Sections[sections.SectionSummary] != "Second attempt content." {
		t.Fatalf("summary = %q", generated.Sections[sections.SectionSummary])
	}

	textClient.mu.Lock()
	calls := textClient.callCount
	textClient.mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected 2 stream calls, got %d", calls)
	}
}

func TestGenerateRejectsUnknownDraft(t *testing.T) {
	textClient := &fakeTextClient{text: "x"}
	svc, _, _, _, ctx := generationFixture(t, textClient)

	if err := svc.Generate(ctx, uuid.New()); err == nil {
		t.Fatal("expected error for unknown draft")
	}
}
