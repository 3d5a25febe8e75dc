package wizard

import (
	"testing"

	"github.com/google/uuid"
)

func validBasicInfo() BasicInfo {
	return BasicInfo{
		SessionDate: "2026-03-12",
		StartTime:   "09:00",
		EndTime:     "10:30",
		Location:    "Home",
		ClientID:    uuid.New(),
	}
}

func TestValidateBasicInfoTimes(t *testing.T) {
	cases := []struct {
		name      string
		start     string
		end       string
		wantValid bool
		wantField string
	}{
		{name: "end_after_start", start: "09:00", end: "10:30", wantValid: true},
		{name: "end_equals_start", start: "09:00", end: "09:00", wantValid: false, wantField: "end_time"},
		{name: "end_before_start", start: "10:30", end: "09:00", wantValid: false, wantField: "end_time"},
		{name: "end_crosses_hour", start: "09:59", end: "10:00", wantValid: true},
		{name: "garbled_start", start: "9am", end: "10:00", wantValid: false, wantField: "start_time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := validBasicInfo()
			info.StartTime = tc.start
			info.EndTime = tc.end
			got := ValidateBasicInfo(info)
			if got.Valid != tc.wantValid {
				t.Fatalf("ValidateBasicInfo valid=%v, want %v (errors: %v)", got.Valid, tc.wantValid, got.FieldErrors)
			}
			if !tc.wantValid {
				if _, ok := got.FieldErrors[tc.wantField]; !ok {
					t.Fatalf("expected field error on %q, got %v", tc.wantField, got.FieldErrors)
				}
			}
		})
	}
}

func TestValidateBasicInfoRequiredFields(t *testing.T) {
	info := BasicInfo{}
	got := ValidateBasicInfo(info)
	if got.Valid {
		t.Fatal("empty basic info must not validate")
	}
	for _, field := range []string{"session_date", "start_time", "end_time", "location", "client_id"} {
		if _, ok := got.FieldErrors[field]; !ok {
			t.Errorf("missing field error for %q", field)
		}
	}
}

func TestValidateSkillTrialSum(t *testing.T) {
	base := Skill{Program: "Matching", Target: "Match colors", Mastery: 60, PromptLevel: "partial physical"}

	cases := []struct {
		name      string
		trials    int
		correct   int
		prompted  int
		incorrect int
		wantValid bool
	}{
		{name: "exact_sum", trials: 10, correct: 6, prompted: 3, incorrect: 1, wantValid: true},
		{name: "sum_below_trials", trials: 10, correct: 6, prompted: 2, incorrect: 1, wantValid: false},
		{name: "sum_above_trials", trials: 10, correct: 6, prompted: 3, incorrect: 2, wantValid: false},
		{name: "zero_trials", trials: 0, wantValid: false},
		{name: "negative_trials", trials: -3, wantValid: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skill := base
			skill.Trials = tc.trials
			skill.Correct = tc.correct
			skill.Prompted = tc.prompted
			skill.Incorrect = tc.incorrect
			got := ValidateSkillAcquisition(SkillAcquisition{Skills: []Skill{skill}})
			if got.Valid != tc.wantValid {
				t.Fatalf("valid=%v, want %v (errors: %v)", got.Valid, tc.wantValid, got.FieldErrors)
			}
		})
	}
}

func TestValidateSkillAcquisitionEmptyList(t *testing.T) {
	got := ValidateSkillAcquisition(SkillAcquisition{})
	if got.Valid {
		t.Fatal("empty skill list must not validate")
	}
	if _, ok := got.FieldErrors["skills"]; !ok {
		t.Fatalf("expected list-level error, got %v", got.FieldErrors)
	}
}

func TestValidateBehaviorEntry(t *testing.T) {
	full := Behavior{
		Name:        "Elopement",
		Definition:  "Leaving the work area without permission",
		Frequency:   2,
		Intensity:   IntensityModerate,
		Antecedent:  "Transition to table work",
		Consequence: "Redirected back to seat",
	}

	t.Run("intervention_optional", func(t *testing.T) {
		got := ValidateBehaviorTracking(BehaviorTracking{Behaviors: []Behavior{full}})
		if !got.Valid {
			t.Fatalf("expected valid, got %v", got.FieldErrors)
		}
	})

	t.Run("missing_required_fields", func(t *testing.T) {
		got := ValidateBehaviorTracking(BehaviorTracking{Behaviors: []Behavior{{Frequency: 1}}})
		if got.Valid {
			t.Fatal("expected invalid")
		}
		for _, field := range []string{"behaviors[0].name", "behaviors[0].definition", "behaviors[0].intensity", "behaviors[0].antecedent", "behaviors[0].consequence"} {
			if _, ok := got.FieldErrors[field]; !ok {
				t.Errorf("missing field error for %q", field)
			}
		}
	})

	t.Run("bad_intensity", func(t *testing.T) {
		b := full
		b.Intensity = "catastrophic"
		got := ValidateBehaviorTracking(BehaviorTracking{Behaviors: []Behavior{b}})
		if got.Valid {
			t.Fatal("expected invalid intensity to fail")
		}
	})
}

func TestValidateReinforcement(t *testing.T) {
	t.Run("defaulted_effectiveness_passes", func(t *testing.T) {
		r := Reinforcer{Name: "Token board", Type: ReinforcerSecondary, Effectiveness: DefaultEffectiveness}
		got := ValidateReinforcement(Reinforcement{Reinforcers: []Reinforcer{r}})
		if !got.Valid {
			t.Fatalf("expected valid, got %v", got.FieldErrors)
		}
	})

	t.Run("out_of_range_effectiveness", func(t *testing.T) {
		r := Reinforcer{Name: "Token board", Type: ReinforcerSecondary, Effectiveness: 6}
		got := ValidateReinforcement(Reinforcement{Reinforcers: []Reinforcer{r}})
		if got.Valid {
			t.Fatal("expected invalid")
		}
	})

	t.Run("missing_type", func(t *testing.T) {
		r := Reinforcer{Name: "Token board", Effectiveness: 3}
		got := ValidateReinforcement(Reinforcement{Reinforcers: []Reinforcer{r}})
		if got.Valid {
			t.Fatal("expected invalid")
		}
	})
}

func TestValidateGeneralNotes(t *testing.T) {
	t.Run("only_required_fields", func(t *testing.T) {
		got := ValidateGeneralNotes(GeneralNotes{SessionNotes: "Good focus today.", NextSessionFocus: "Continue matching program."})
		if !got.Valid {
			t.Fatalf("expected valid, got %v", got.FieldErrors)
		}
	})

	t.Run("missing_required", func(t *testing.T) {
		got := ValidateGeneralNotes(GeneralNotes{CaregiverFeedback: "present but not sufficient"})
		if got.Valid {
			t.Fatal("expected invalid")
		}
		if _, ok := got.FieldErrors["session_notes"]; !ok {
			t.Errorf("missing session_notes error: %v", got.FieldErrors)
		}
		if _, ok := got.FieldErrors["next_session_focus"]; !ok {
			t.Errorf("missing next_session_focus error: %v", got.FieldErrors)
		}
	})
}

func TestValidateActivities(t *testing.T) {
	okActivity := Activity{
		Name:          "Puzzle play",
		Reinforcement: Reinforcer{Name: "Praise", Type: ReinforcerSocial, Effectiveness: 4},
	}

	t.Run("minimal_activity", func(t *testing.T) {
		got := ValidateActivities(Activities{Activities: []Activity{okActivity}})
		if !got.Valid {
			t.Fatalf("expected valid, got %v", got.FieldErrors)
		}
	})

	t.Run("empty_list", func(t *testing.T) {
		got := ValidateActivities(Activities{})
		if got.Valid {
			t.Fatal("expected invalid")
		}
	})

	t.Run("nested_skill_trials_checked", func(t *testing.T) {
		a := okActivity
		a.SkillTrials = []Skill{{Program: "Matching", Target: "Colors", Trials: 5, Correct: 3, Prompted: 1, Incorrect: 0}}
		got := ValidateActivities(Activities{Activities: []Activity{a}})
		if got.Valid {
			t.Fatal("expected nested trial-sum violation to fail")
		}
	})
}
