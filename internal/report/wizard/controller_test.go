package wizard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func completeStructuredController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController(FlowStructured)
	if err != nil {
		t.Fatal(err)
	}
	updates := []SectionUpdate{
		BasicInfoUpdate{Data: validBasicInfo()},
		SkillAcquisitionUpdate{Data: SkillAcquisition{Skills: []Skill{
			{Program: "Matching", Target: "Match colors", Trials: 10, Correct: 7, Prompted: 2, Incorrect: 1, Mastery: 70},
		}}},
		BehaviorTrackingUpdate{Data: BehaviorTracking{Behaviors: []Behavior{
			{Name: "Elopement", Definition: "Leaving the area", Frequency: 1, Intensity: IntensityMild, Antecedent: "Demand placed", Consequence: "Redirected"},
		}}},
		ReinforcementUpdate{Data: Reinforcement{Reinforcers: []Reinforcer{
			{Name: "Token board", Type: ReinforcerSecondary, Effectiveness: 4},
		}}},
		GeneralNotesUpdate{Data: GeneralNotes{SessionNotes: "Engaged session.", NextSessionFocus: "Expand targets."}},
	}
	for _, u := range updates {
		if err := c.UpdateSection(u); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestAdvanceBlockedByInvalidStep(t *testing.T) {
	c, err := NewController(FlowStructured)
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Fatal("advance from empty basic info must fail validation")
	}
	if c.State().CurrentStep != StepBasicInfo {
		t.Fatalf("step moved to %q despite invalid data", c.State().CurrentStep)
	}
}

func TestAdvanceThroughWholeFlow(t *testing.T) {
	c := completeStructuredController(t)
	want := []Step{StepSkillAcquisition, StepBehaviorTracking, StepReinforcement, StepGeneralNotes, StepReview}
	for _, step := range want {
		result, err := c.Advance()
		if err != nil {
			t.Fatalf("advance to %q: %v", step, err)
		}
		if !result.Valid {
			t.Fatalf("advance to %q blocked: %v", step, result.FieldErrors)
		}
		if got := c.State().CurrentStep; got != step {
			t.Fatalf("current step = %q, want %q", got, step)
		}
	}
	if _, err := c.Advance(); !errors.Is(err, ErrAtFinalStep) {
		t.Fatalf("advance past terminal step: err = %v, want ErrAtFinalStep", err)
	}
}

func TestRetreatAlwaysSucceeds(t *testing.T) {
	c := completeStructuredController(t)
	if _, err := c.Advance(); err != nil {
		t.Fatal(err)
	}
	// Invalidate the step we are on, then retreat; no re-validation happens.
	if err := c.UpdateSection(SkillAcquisitionUpdate{}); err != nil {
		t.Fatal(err)
	}
	c.Retreat()
	if got := c.State().CurrentStep; got != StepBasicInfo {
		t.Fatalf("current step = %q, want %q", got, StepBasicInfo)
	}
	// Retreat at the first step is a no-op.
	c.Retreat()
	if got := c.State().CurrentStep; got != StepBasicInfo {
		t.Fatalf("retreat at first step moved to %q", got)
	}
}

func TestResetMatchesFreshController(t *testing.T) {
	c := completeStructuredController(t)
	for {
		if _, err := c.Advance(); err != nil {
			break
		}
	}
	c.Reset()

	fresh, err := NewController(FlowStructured)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c.State(), fresh.State()) {
		t.Fatalf("reset state differs from fresh state:\n%+v\nvs\n%+v", c.State(), fresh.State())
	}

	resetResult, err := c.Advance()
	if err != nil {
		t.Fatal(err)
	}
	freshResult, err := fresh.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resetResult, freshResult) {
		t.Fatalf("reset-then-advance validation differs from fresh: %+v vs %+v", resetResult, freshResult)
	}
}

func TestUpdateSectionIsolation(t *testing.T) {
	c := completeStructuredController(t)
	before := c.State()

	if err := c.UpdateSection(BehaviorTrackingUpdate{Data: BehaviorTracking{}}); err != nil {
		t.Fatal(err)
	}
	after := c.State()

	if len(after.BehaviorTracking.Behaviors) != 0 {
		t.Fatal("behavior tracking not replaced")
	}
	if !reflect.DeepEqual(before.BasicInfo, after.BasicInfo) ||
		!reflect.DeepEqual(before.SkillAcquisition, after.SkillAcquisition) ||
		!reflect.DeepEqual(before.Reinforcement, after.Reinforcement) ||
		!reflect.DeepEqual(before.GeneralNotes, after.GeneralNotes) {
		t.Fatal("updating one section touched another section's data")
	}
}

func TestUpdateSectionRejectsForeignStep(t *testing.T) {
	c, err := NewController(FlowActivity)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateSection(SkillAcquisitionUpdate{}); err == nil {
		t.Fatal("skill step must not be updatable in the activity flow")
	}
}

func TestEffectivenessDefaultsToMidScale(t *testing.T) {
	c, err := NewController(FlowStructured)
	if err != nil {
		t.Fatal(err)
	}
	err = c.UpdateSection(ReinforcementUpdate{Data: Reinforcement{Reinforcers: []Reinforcer{
		{Name: "Bubbles", Type: ReinforcerPrimary},
	}}})
	if err != nil {
		t.Fatal(err)
	}
	got := c.State().Reinforcement.Reinforcers[0].Effectiveness
	if got != DefaultEffectiveness {
		t.Fatalf("effectiveness = %d, want %d", got, DefaultEffectiveness)
	}
}

func TestStoreOwnership(t *testing.T) {
	store := NewStore()
	owner := uuid.New()
	stranger := uuid.New()

	draft, err := store.Open(owner, FlowStructured)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(owner, draft.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := store.Get(stranger, draft.ID); !errors.Is(err, ErrNotDraftOwner) {
		t.Fatalf("stranger get: err = %v, want ErrNotDraftOwner", err)
	}
	store.Discard(draft.ID)
	if _, err := store.Get(owner, draft.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("discarded get: err = %v, want ErrDraftNotFound", err)
	}
}
