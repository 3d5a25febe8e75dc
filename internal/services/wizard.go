package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
)

// DraftView is the wire shape of a wizard draft returned to the frontend.
type DraftView struct {
	ID        uuid.UUID               `json:"id"`
	State     wizard.SessionFormState `json:"state"`
	Generated *wizard.GeneratedReport `json:"generated,omitempty"`
}

// AdvanceResult carries the validation outcome of an advance attempt along
// with the (possibly unchanged) draft.
type AdvanceResult struct {
	Validation  wizard.ValidationResult `json:"validation"`
	AtFinalStep bool                    `json:"at_final_step"`
	Draft       DraftView               `json:"draft"`
}

// WizardService exposes the multi-step form flow over the in-memory draft
// store. All operations are owner-scoped through the request context.
type WizardService interface {
	OpenDraft(ctx context.Context, flow wizard.Flow) (DraftView, error)
	GetDraft(ctx context.Context, draftID uuid.UUID) (DraftView, error)
	UpdateSection(ctx context.Context, draftID uuid.UUID, step wizard.Step, payload json.RawMessage) (DraftView, error)
	Advance(ctx context.Context, draftID uuid.UUID) (AdvanceResult, error)
	Retreat(ctx context.Context, draftID uuid.UUID) (DraftView, error)
	Reset(ctx context.Context, draftID uuid.UUID) (DraftView, error)
	DiscardDraft(ctx context.Context, draftID uuid.UUID) error
}

type wizardService struct {
	log    *logger.Logger
	drafts *wizard.Store
}

func NewWizardService(log *logger.Logger, drafts *wizard.Store) WizardService {
	return &wizardService{
		log:    log.With("service", "WizardService"),
		drafts: drafts,
	}
}

func (ws *wizardService) OpenDraft(ctx context.Context, flow wizard.Flow) (DraftView, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return DraftView{}, fmt.Errorf("request data not set in context")
	}
	draft, err := ws.drafts.Open(rd.UserID, flow)
	if err != nil {
		return DraftView{}, err
	}
	ws.log.Info("Wizard draft opened", "draft_id", draft.ID, "user_id", rd.UserID, "flow", flow)
	return draftView(draft), nil
}

func (ws *wizardService) GetDraft(ctx context.Context, draftID uuid.UUID) (DraftView, error) {
	draft, err := ws.ownedDraft(ctx, draftID)
	if err != nil {
		return DraftView{}, err
	}
	return draftView(draft), nil
}

// UpdateSection decodes the step-specific payload and applies it. Payloads
// are tagged by step so a request can never write outside the step it names.
func (ws *wizardService) UpdateSection(ctx context.Context, draftID uuid.UUID, step wizard.Step, payload json.RawMessage) (DraftView, error) {
	draft, err := ws.ownedDraft(ctx, draftID)
	if err != nil {
		return DraftView{}, err
	}

	update, dErr := decodeSectionUpdate(step, payload)
	if dErr != nil {
		return DraftView{}, dErr
	}

	if uErr := draft.Update(func(c *wizard.Controller) error {
		return c.UpdateSection(update)
	}); uErr != nil {
		return DraftView{}, uErr
	}
	return draftView(draft), nil
}

func decodeSectionUpdate(step wizard.Step, payload json.RawMessage) (wizard.SectionUpdate, error) {
	switch step {
	case wizard.StepBasicInfo:
		var u wizard.BasicInfoUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("invalid basic info payload: %w", err)
		}
		return u, nil
	case wizard.StepSkillAcquisition:
		var u wizard.SkillAcquisitionUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("invalid skill acquisition payload: %w", err)
		}
		return u, nil
	case wizard.StepBehaviorTracking:
		var u wizard.BehaviorTrackingUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("invalid behavior tracking payload: %w", err)
		}
		return u, nil
	case wizard.StepReinforcement:
		var u wizard.ReinforcementUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("invalid reinforcement payload: %w", err)
		}
		return u, nil
	case wizard.StepActivities:
		var u wizard.ActivitiesUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("invalid activities payload: %w", err)
		}
		return u, nil
	case wizard.StepGeneralNotes:
		var u wizard.GeneralNotesUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("invalid general notes payload: %w", err)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("step %q does not accept section updates", step)
	}
}

func (ws *wizardService) Advance(ctx context.Context, draftID uuid.UUID) (AdvanceResult, error) {
	draft, err := ws.ownedDraft(ctx, draftID)
	if err != nil {
		return AdvanceResult{}, err
	}

	var result AdvanceResult
	if uErr := draft.Update(func(c *wizard.Controller) error {
		validation, aErr := c.Advance()
		if aErr != nil {
			return aErr
		}
		result.Validation = validation
		result.AtFinalStep = c.AtFinalStep()
		return nil
	}); uErr != nil {
		return AdvanceResult{}, uErr
	}
	result.Draft = draftView(draft)
	return result, nil
}

func (ws *wizardService) Retreat(ctx context.Context, draftID uuid.UUID) (DraftView, error) {
	draft, err := ws.ownedDraft(ctx, draftID)
	if err != nil {
		return DraftView{}, err
	}
	_ = draft.Update(func(c *wizard.Controller) error {
		c.Retreat()
		return nil
	})
	return draftView(draft), nil
}

func (ws *wizardService) Reset(ctx context.Context, draftID uuid.UUID) (DraftView, error) {
	draft, err := ws.ownedDraft(ctx, draftID)
	if err != nil {
		return DraftView{}, err
	}
	_ = draft.Update(func(c *wizard.Controller) error {
		c.Reset()
		return nil
	})
	draft.SetGenerated(nil)
	return draftView(draft), nil
}

func (ws *wizardService) DiscardDraft(ctx context.Context, draftID uuid.UUID) error {
	if _, err := ws.ownedDraft(ctx, draftID); err != nil {
		return err
	}
	ws.drafts.Discard(draftID)
	return nil
}

func (ws *wizardService) ownedDraft(ctx context.Context, draftID uuid.UUID) (*wizard.Draft, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	return ws.drafts.Get(rd.UserID, draftID)
}

func draftView(draft *wizard.Draft) DraftView {
	return DraftView{
		ID:        draft.ID,
		State:     draft.Snapshot(),
		Generated: draft.Generated(),
	}
}
