package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/platform/openai"
	"github.com/brightsteps/sessionscribe-backend/internal/report/prompt"
	"github.com/brightsteps/sessionscribe-backend/internal/report/sections"
	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
)

const generationSystemPrompt = "You are an experienced Board Certified Behavior Analyst writing " +
	"professional ABA therapy session reports. Write in clear, objective, clinical language. " +
	"Use only the data provided; never invent clinical details."

// GenerationService runs the report-generation pipeline for a wizard draft:
// assemble the prompt, stream model output, segment it into sections, and
// stash the result on the draft. One generation runs per draft at a time;
// starting a new attempt or canceling always begins from a clean slate —
// no partial text from a previous attempt survives.
type GenerationService interface {
	// Generate starts a generation attempt for the draft and returns once
	// the attempt is accepted. Progress is delivered over the draft's SSE
	// channel.
	Generate(ctx context.Context, draftID uuid.UUID) error

	// Cancel aborts the in-flight attempt for the draft, if any.
	Cancel(ctx context.Context, draftID uuid.UUID) error
}

type generationService struct {
	log       *logger.Logger
	drafts    *wizard.Store
	clientSvc ClientService
	userSvc   UserService
	textGen   openai.Client
	parser    sections.Parser
	bus       SSEBus

	mu      sync.Mutex
	running map[uuid.UUID]*generationAttempt
}

type generationAttempt struct {
	id     uuid.UUID
	cancel context.CancelFunc
}

func NewGenerationService(
	log *logger.Logger,
	drafts *wizard.Store,
	clientSvc ClientService,
	userSvc UserService,
	textGen openai.Client,
	parser sections.Parser,
	bus SSEBus,
) GenerationService {
	return &generationService{
		log:       log.With("service", "GenerationService"),
		drafts:    drafts,
		clientSvc: clientSvc,
		userSvc:   userSvc,
		textGen:   textGen,
		parser:    parser,
		bus:       bus,
		running:   make(map[uuid.UUID]*generationAttempt),
	}
}

func (gs *generationService) Generate(ctx context.Context, draftID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("request data not set in context")
	}
	draft, err := gs.drafts.Get(rd.UserID, draftID)
	if err != nil {
		return err
	}

	state := draft.Snapshot()
	client, cErr := gs.clientSvc.GetClient(ctx, state.BasicInfo.ClientID)
	if cErr != nil {
		return fmt.Errorf("failed to resolve client for draft: %w", cErr)
	}
	user, uErr := gs.userSvc.GetMe(ctx)
	if uErr != nil {
		return fmt.Errorf("failed to resolve clinician for draft: %w", uErr)
	}

	clientName := client.DisplayName()
	rbtName := clinicianDisplayName(user)

	userPrompt, aErr := prompt.Assemble(state, clientName, rbtName)
	if aErr != nil {
		return fmt.Errorf("failed to assemble prompt: %w", aErr)
	}

	duration, dErr := prompt.FormatDuration(state.BasicInfo.StartTime, state.BasicInfo.EndTime)
	if dErr != nil {
		return fmt.Errorf("invalid session times: %w", dErr)
	}

	// A new attempt replaces any running one and clears earlier output.
	gs.mu.Lock()
	if prev, ok := gs.running[draftID]; ok {
		prev.cancel()
	}
	genCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	attempt := &generationAttempt{id: uuid.New(), cancel: cancel}
	gs.running[draftID] = attempt
	gs.mu.Unlock()

	draft.SetGenerated(nil)

	metadata := wizard.ReportMetadata{
		ClientName:      clientName,
		SessionDate:     state.BasicInfo.SessionDate,
		SessionDuration: duration,
		Location:        state.BasicInfo.Location,
		RBTName:         rbtName,
	}

	go gs.run(genCtx, attempt, draft, metadata, userPrompt)
	return nil
}

func (gs *generationService) run(ctx context.Context, attempt *generationAttempt, draft *wizard.Draft, metadata wizard.ReportMetadata, userPrompt string) {
	defer gs.release(draft.ID, attempt)

	channel := sse.ReportChannel(draft.ID)
	gs.publish(ctx, channel, sse.SSEEventGenerationStarted, nil)

	fullText, err := gs.textGen.StreamText(ctx, generationSystemPrompt, userPrompt, func(delta string) {
		gs.publish(ctx, channel, sse.SSEEventGenerationDelta, map[string]any{"delta": delta})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			gs.log.Info("Report generation canceled", "draft_id", draft.ID)
			gs.publish(context.WithoutCancel(ctx), channel, sse.SSEEventGenerationCanceled, nil)
			return
		}
		gs.log.Warn("Report generation failed", "draft_id", draft.ID, "error", err)
		gs.publish(ctx, channel, sse.SSEEventGenerationFailed, map[string]any{"error": err.Error()})
		return
	}

	parsed := gs.parser.Parse(fullText)
	report := &wizard.GeneratedReport{
		Metadata:    metadata,
		FullContent: fullText,
		Sections:    parsed,
	}
	draft.SetGenerated(report)

	gs.publish(ctx, channel, sse.SSEEventGenerationCompleted, report)
}

func (gs *generationService) Cancel(ctx context.Context, draftID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("request data not set in context")
	}
	draft, err := gs.drafts.Get(rd.UserID, draftID)
	if err != nil {
		return err
	}

	gs.mu.Lock()
	attempt, ok := gs.running[draftID]
	gs.mu.Unlock()
	if !ok {
		return fmt.Errorf("no generation in progress for draft")
	}
	attempt.cancel()

	// Canceled attempts leave nothing behind.
	draft.SetGenerated(nil)
	return nil
}

// release drops the attempt's bookkeeping entry, but only if it has not
// already been replaced by a newer attempt for the same draft.
func (gs *generationService) release(draftID uuid.UUID, attempt *generationAttempt) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	attempt.cancel()
	if current, ok := gs.running[draftID]; ok && current.id == attempt.id {
		delete(gs.running, draftID)
	}
}

func (gs *generationService) publish(ctx context.Context, channel string, event sse.SSEEvent, data any) {
	if gs.bus == nil {
		return
	}
	msg := sse.SSEMessage{Channel: channel, Event: event, Data: data}
	if err := gs.bus.Publish(ctx, msg); err != nil {
		gs.log.Warn("Failed to publish generation event", "channel", channel, "event", event, "error", err)
	}
}
