package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationResult is the outcome of validating one step. FieldErrors is
// keyed by field path (list entries are prefixed "skills[2].").
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(fieldErrors map[string]string) ValidationResult {
	return ValidationResult{Valid: false, FieldErrors: fieldErrors}
}

// ValidateStep dispatches to the pure per-step validator for the given flow.
func ValidateStep(state SessionFormState, step Step) ValidationResult {
	switch step {
	case StepBasicInfo:
		return ValidateBasicInfo(state.BasicInfo)
	case StepSkillAcquisition:
		return ValidateSkillAcquisition(state.SkillAcquisition)
	case StepBehaviorTracking:
		return ValidateBehaviorTracking(state.BehaviorTracking)
	case StepReinforcement:
		return ValidateReinforcement(state.Reinforcement)
	case StepActivities:
		return ValidateActivities(state.Activities)
	case StepGeneralNotes:
		return ValidateGeneralNotes(state.GeneralNotes)
	case StepReview:
		return valid()
	default:
		return invalid(map[string]string{"step": fmt.Sprintf("unknown step %q", step)})
	}
}

func ValidateBasicInfo(info BasicInfo) ValidationResult {
	errs := map[string]string{}
	if strings.TrimSpace(info.SessionDate) == "" {
		errs["session_date"] = "session date is required"
	}
	if strings.TrimSpace(info.StartTime) == "" {
		errs["start_time"] = "start time is required"
	}
	if strings.TrimSpace(info.EndTime) == "" {
		errs["end_time"] = "end time is required"
	}
	if strings.TrimSpace(info.Location) == "" {
		errs["location"] = "location is required"
	}
	if info.ClientID == uuid.Nil {
		errs["client_id"] = "client is required"
	}
	if errs["start_time"] == "" && errs["end_time"] == "" {
		start, serr := parseClock(info.StartTime)
		end, eerr := parseClock(info.EndTime)
		switch {
		case serr != nil:
			errs["start_time"] = "start time must be HH:MM"
		case eerr != nil:
			errs["end_time"] = "end time must be HH:MM"
		case !end.After(start):
			errs["end_time"] = "end time must be after start time"
		}
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return valid()
}

// parseClock reads a time-of-day on an arbitrary reference date, so "09:00"
// and "10:30" compare the way wall-clock times within one session do.
func parseClock(raw string) (time.Time, error) {
	return time.Parse("15:04", strings.TrimSpace(raw))
}

func ValidateSkillAcquisition(sa SkillAcquisition) ValidationResult {
	if len(sa.Skills) == 0 {
		return invalid(map[string]string{"skills": "add at least one skill program"})
	}
	errs := map[string]string{}
	for i, skill := range sa.Skills {
		prefix := fmt.Sprintf("skills[%d].", i)
		validateSkillEntry(skill, prefix, errs)
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return valid()
}

func validateSkillEntry(skill Skill, prefix string, errs map[string]string) {
	if strings.TrimSpace(skill.Program) == "" {
		errs[prefix+"program"] = "program is required"
	}
	if strings.TrimSpace(skill.Target) == "" {
		errs[prefix+"target"] = "target is required"
	}
	if skill.Trials <= 0 {
		errs[prefix+"trials"] = "trials must be greater than zero"
		return
	}
	// Exact equality: every trial is classified exactly once.
	if skill.Correct+skill.Prompted+skill.Incorrect != skill.Trials {
		errs[prefix+"trials"] = fmt.Sprintf(
			"correct + prompted + incorrect must equal trials (%d + %d + %d != %d)",
			skill.Correct, skill.Prompted, skill.Incorrect, skill.Trials)
	}
	if skill.Mastery < 0 || skill.Mastery > 100 {
		errs[prefix+"mastery"] = "mastery must be between 0 and 100"
	}
}

func ValidateBehaviorTracking(bt BehaviorTracking) ValidationResult {
	if len(bt.Behaviors) == 0 {
		return invalid(map[string]string{"behaviors": "add at least one behavior"})
	}
	errs := map[string]string{}
	for i, b := range bt.Behaviors {
		prefix := fmt.Sprintf("behaviors[%d].", i)
		validateBehaviorEntry(b, prefix, errs)
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return valid()
}

func validateBehaviorEntry(b Behavior, prefix string, errs map[string]string) {
	if strings.TrimSpace(b.Name) == "" {
		errs[prefix+"name"] = "behavior name is required"
	}
	if strings.TrimSpace(b.Definition) == "" {
		errs[prefix+"definition"] = "definition is required"
	}
	switch b.Intensity {
	case IntensityMild, IntensityModerate, IntensitySevere:
	case "":
		errs[prefix+"intensity"] = "intensity is required"
	default:
		errs[prefix+"intensity"] = "intensity must be mild, moderate, or severe"
	}
	if strings.TrimSpace(b.Antecedent) == "" {
		errs[prefix+"antecedent"] = "antecedent is required"
	}
	if strings.TrimSpace(b.Consequence) == "" {
		errs[prefix+"consequence"] = "consequence is required"
	}
	if b.Frequency < 0 {
		errs[prefix+"frequency"] = "frequency cannot be negative"
	}
	if b.DurationMinutes < 0 {
		errs[prefix+"duration_minutes"] = "duration cannot be negative"
	}
}

func ValidateReinforcement(r Reinforcement) ValidationResult {
	if len(r.Reinforcers) == 0 {
		return invalid(map[string]string{"reinforcers": "add at least one reinforcer"})
	}
	errs := map[string]string{}
	for i, reinforcer := range r.Reinforcers {
		prefix := fmt.Sprintf("reinforcers[%d].", i)
		validateReinforcerEntry(reinforcer, prefix, errs)
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return valid()
}

func validateReinforcerEntry(r Reinforcer, prefix string, errs map[string]string) {
	if strings.TrimSpace(r.Name) == "" {
		errs[prefix+"name"] = "reinforcer is required"
	}
	switch r.Type {
	case ReinforcerPrimary, ReinforcerSecondary, ReinforcerSocial, ReinforcerActivity:
	case "":
		errs[prefix+"type"] = "reinforcer type is required"
	default:
		errs[prefix+"type"] = "reinforcer type must be primary, secondary, social, or activity"
	}
	// Effectiveness is normalized to the mid-scale default before validation,
	// so only an out-of-range explicit value can fail here.
	if r.Effectiveness < 1 || r.Effectiveness > 5 {
		errs[prefix+"effectiveness"] = "effectiveness must be between 1 and 5"
	}
}

func ValidateActivities(a Activities) ValidationResult {
	if len(a.Activities) == 0 {
		return invalid(map[string]string{"activities": "add at least one activity"})
	}
	errs := map[string]string{}
	for i, act := range a.Activities {
		prefix := fmt.Sprintf("activities[%d].", i)
		if strings.TrimSpace(act.Name) == "" {
			errs[prefix+"name"] = "activity name is required"
		}
		validateReinforcerEntry(act.Reinforcement, prefix+"reinforcement.", errs)
		for j, b := range act.Behaviors {
			validateBehaviorEntry(b, fmt.Sprintf("%sbehaviors[%d].", prefix, j), errs)
		}
		for j, s := range act.SkillTrials {
			validateSkillEntry(s, fmt.Sprintf("%sskill_trials[%d].", prefix, j), errs)
		}
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return valid()
}

func ValidateGeneralNotes(n GeneralNotes) ValidationResult {
	errs := map[string]string{}
	if strings.TrimSpace(n.SessionNotes) == "" {
		errs["session_notes"] = "session notes are required"
	}
	if strings.TrimSpace(n.NextSessionFocus) == "" {
		errs["next_session_focus"] = "next session focus is required"
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return valid()
}
