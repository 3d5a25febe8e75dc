package wizard

import (
	"fmt"
)

// SectionUpdate is a tagged per-step update message. Exactly one step's data
// is replaced per update; the other steps are never touched. The sealed
// interface keeps the aggregate's shape statically known instead of merging
// dynamic maps.
type SectionUpdate interface {
	step() Step
}

type BasicInfoUpdate struct {
	Data BasicInfo `json:"data"`
}

type SkillAcquisitionUpdate struct {
	Data SkillAcquisition `json:"data"`
}

type BehaviorTrackingUpdate struct {
	Data BehaviorTracking `json:"data"`
}

type ReinforcementUpdate struct {
	Data Reinforcement `json:"data"`
}

type ActivitiesUpdate struct {
	Data Activities `json:"data"`
}

type GeneralNotesUpdate struct {
	Data GeneralNotes `json:"data"`
}

func (BasicInfoUpdate) step() Step        { return StepBasicInfo }
func (SkillAcquisitionUpdate) step() Step { return StepSkillAcquisition }
func (BehaviorTrackingUpdate) step() Step { return StepBehaviorTracking }
func (ReinforcementUpdate) step() Step    { return StepReinforcement }
func (ActivitiesUpdate) step() Step       { return StepActivities }
func (GeneralNotesUpdate) step() Step     { return StepGeneralNotes }

var ErrAtFinalStep = fmt.Errorf("already at the final step")

// Controller owns one SessionFormState for the lifetime of a draft. It is the
// only component allowed to mutate the aggregate; it never touches the
// network and has no side effects beyond in-memory state.
type Controller struct {
	state SessionFormState
}

func NewController(flow Flow) (*Controller, error) {
	if _, ok := flowSteps[flow]; !ok {
		return nil, fmt.Errorf("unknown wizard flow %q", flow)
	}
	return &Controller{state: NewSessionFormState(flow)}, nil
}

// State returns a copy of the aggregate form state.
func (c *Controller) State() SessionFormState {
	return cloneState(c.state)
}

// UpdateSection applies one tagged section update. Steps that do not exist in
// the draft's flow are rejected rather than silently stored.
func (c *Controller) UpdateSection(update SectionUpdate) error {
	if update == nil {
		return fmt.Errorf("nil section update")
	}
	target := update.step()
	if !flowHasStep(c.state.Flow, target) {
		return fmt.Errorf("step %q is not part of the %s flow", target, c.state.Flow)
	}
	c.state = applyUpdate(c.state, update)
	return nil
}

// applyUpdate is the single reducer-style transition over the aggregate.
func applyUpdate(state SessionFormState, update SectionUpdate) SessionFormState {
	switch u := update.(type) {
	case BasicInfoUpdate:
		state.BasicInfo = u.Data
	case SkillAcquisitionUpdate:
		state.SkillAcquisition = cloneSkillAcquisition(u.Data)
	case BehaviorTrackingUpdate:
		state.BehaviorTracking = cloneBehaviorTracking(u.Data)
	case ReinforcementUpdate:
		data := cloneReinforcement(u.Data)
		for i := range data.Reinforcers {
			if data.Reinforcers[i].Effectiveness == 0 {
				data.Reinforcers[i].Effectiveness = DefaultEffectiveness
			}
		}
		state.Reinforcement = data
	case ActivitiesUpdate:
		data := cloneActivities(u.Data)
		for i := range data.Activities {
			if data.Activities[i].Reinforcement.Effectiveness == 0 {
				data.Activities[i].Reinforcement.Effectiveness = DefaultEffectiveness
			}
		}
		state.Activities = data
	case GeneralNotesUpdate:
		state.GeneralNotes = u.Data
	}
	return state
}

// Advance moves to the next step only when the current step validates. On
// failure the state is unchanged and the result carries the field errors.
func (c *Controller) Advance() (ValidationResult, error) {
	steps := flowSteps[c.state.Flow]
	idx := stepIndex(steps, c.state.CurrentStep)
	if idx < 0 {
		return ValidationResult{}, fmt.Errorf("current step %q not in flow %q", c.state.CurrentStep, c.state.Flow)
	}
	if idx == len(steps)-1 {
		return ValidationResult{}, ErrAtFinalStep
	}
	result := ValidateStep(c.state, c.state.CurrentStep)
	if !result.Valid {
		return result, nil
	}
	c.state.CurrentStep = steps[idx+1]
	return result, nil
}

// Retreat always succeeds; the step being left is not re-validated. At the
// first step it is a no-op.
func (c *Controller) Retreat() {
	steps := flowSteps[c.state.Flow]
	idx := stepIndex(steps, c.state.CurrentStep)
	if idx > 0 {
		c.state.CurrentStep = steps[idx-1]
	}
}

// Reset restores empty defaults and the initial step, keeping the flow.
func (c *Controller) Reset() {
	c.state = NewSessionFormState(c.state.Flow)
}

// AtFinalStep reports whether the wizard has reached the generation step.
func (c *Controller) AtFinalStep() bool {
	steps := flowSteps[c.state.Flow]
	return stepIndex(steps, c.state.CurrentStep) == len(steps)-1
}

func flowHasStep(flow Flow, step Step) bool {
	return stepIndex(flowSteps[flow], step) >= 0
}

func stepIndex(steps []Step, step Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

// Deep copies keep callers from aliasing the controller-owned slices.

func cloneState(s SessionFormState) SessionFormState {
	s.SkillAcquisition = cloneSkillAcquisition(s.SkillAcquisition)
	s.BehaviorTracking = cloneBehaviorTracking(s.BehaviorTracking)
	s.Reinforcement = cloneReinforcement(s.Reinforcement)
	s.Activities = cloneActivities(s.Activities)
	return s
}

func cloneSkillAcquisition(sa SkillAcquisition) SkillAcquisition {
	if sa.Skills != nil {
		sa.Skills = append([]Skill(nil), sa.Skills...)
	}
	return sa
}

func cloneBehaviorTracking(bt BehaviorTracking) BehaviorTracking {
	if bt.Behaviors != nil {
		bt.Behaviors = append([]Behavior(nil), bt.Behaviors...)
	}
	return bt
}

func cloneReinforcement(r Reinforcement) Reinforcement {
	if r.Reinforcers != nil {
		r.Reinforcers = append([]Reinforcer(nil), r.Reinforcers...)
	}
	return r
}

func cloneActivities(a Activities) Activities {
	if a.Activities == nil {
		return a
	}
	out := make([]Activity, len(a.Activities))
	for i, act := range a.Activities {
		if act.Behaviors != nil {
			act.Behaviors = append([]Behavior(nil), act.Behaviors...)
		}
		if act.PromptsUsed != nil {
			act.PromptsUsed = append([]string(nil), act.PromptsUsed...)
		}
		if act.SkillTrials != nil {
			act.SkillTrials = append([]Skill(nil), act.SkillTrials...)
		}
		out[i] = act
	}
	a.Activities = out
	return a
}
