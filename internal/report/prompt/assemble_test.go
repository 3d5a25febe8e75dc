package prompt

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
)

func sampleState() wizard.SessionFormState {
	state := wizard.NewSessionFormState(wizard.FlowStructured)
	state.BasicInfo = wizard.BasicInfo{
		SessionDate: "2026-03-12",
		StartTime:   "09:00",
		EndTime:     "10:30",
		Location:    "Clinic room 2",
		ClientID:    uuid.MustParse("4f5c1c2e-9d15-4a6b-8a1f-111111111111"),
	}
	state.SkillAcquisition = wizard.SkillAcquisition{Skills: []wizard.Skill{
		{Program: "Matching", Target: "Match colors", Trials: 10, Correct: 7, Prompted: 2, Incorrect: 1, Mastery: 70, PromptLevel: "Partial physical"},
	}}
	state.BehaviorTracking = wizard.BehaviorTracking{Behaviors: []wizard.Behavior{
		{Name: "Elopement", Definition: "Leaving the area", Frequency: 2, Intensity: wizard.IntensityModerate, Antecedent: "Demand placed", Consequence: "Redirected"},
	}}
	state.Reinforcement = wizard.Reinforcement{Reinforcers: []wizard.Reinforcer{
		{Name: "Token board", Type: wizard.ReinforcerSecondary, Effectiveness: 4},
	}}
	state.GeneralNotes = wizard.GeneralNotes{
		SessionNotes:     "Engaged throughout.",
		NextSessionFocus: "Introduce new targets.",
	}
	return state
}

func TestAssembleDeterministic(t *testing.T) {
	state := sampleState()
	first, err := Assemble(state, "Jane Doe", "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Assemble(state, "Jane Doe", "John Smith")
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatal("identical inputs produced different prompts")
		}
	}
}

func TestAssembleSectionOrder(t *testing.T) {
	out, err := Assemble(sampleState(), "Jane Doe", "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	markers := []string{
		"Client: Jane Doe",
		"Clinician (RBT): John Smith",
		"Session Information:",
		"Skill Acquisition Data:",
		"Behavior Data:",
		"Reinforcement Data:",
		"General Notes:",
		"Write a professional ABA session report",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("prompt missing %q:\n%s", marker, out)
		}
		if idx <= last {
			t.Fatalf("%q appears out of order", marker)
		}
		last = idx
	}
}

func TestAssembleOmitsEmptyOptionalFields(t *testing.T) {
	state := sampleState()
	state.GeneralNotes.CaregiverFeedback = ""
	state.GeneralNotes.EnvironmentalFactors = ""
	out, err := Assemble(state, "Jane Doe", "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Caregiver feedback") {
		t.Fatal("empty caregiver feedback rendered")
	}
	if strings.Contains(out, "Environmental factors") {
		t.Fatal("empty environmental factors rendered")
	}
	// No label ever appears with a blank value.
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, ":") && strings.HasPrefix(trimmed, "-") {
			t.Fatalf("label with blank value rendered: %q", line)
		}
	}
}

func TestAssembleDoesNotLeakIdentifiers(t *testing.T) {
	state := sampleState()
	out, err := Assemble(state, "Jane Doe", "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, state.BasicInfo.ClientID.String()) {
		t.Fatal("client UUID leaked into prompt")
	}
	if !strings.Contains(out, "Intensity: Moderate") {
		t.Fatal("expected human-readable intensity label")
	}
	if !strings.Contains(out, "Type: Secondary") {
		t.Fatal("expected human-readable reinforcer type label")
	}
}

func TestAssembleActivityFlow(t *testing.T) {
	state := wizard.NewSessionFormState(wizard.FlowActivity)
	state.BasicInfo = sampleState().BasicInfo
	state.Activities = wizard.Activities{
		InitialStatus: "Arrived calm and regulated.",
		Activities: []wizard.Activity{{
			Name:          "Puzzle play",
			Description:   "Four-piece animal puzzles",
			PromptsUsed:   []string{"Gestural", "Verbal"},
			Reinforcement: wizard.Reinforcer{Name: "Praise", Type: wizard.ReinforcerSocial, Effectiveness: 4},
		}},
	}
	state.GeneralNotes = wizard.GeneralNotes{SessionNotes: "Smooth session.", NextSessionFocus: "Increase puzzle difficulty."}

	out, err := Assemble(state, "Jane Doe", "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	statusIdx := strings.Index(out, "Status at Start of Session:")
	activitiesIdx := strings.Index(out, "Session Activities:")
	if statusIdx < 0 || activitiesIdx < 0 || statusIdx > activitiesIdx {
		t.Fatalf("activity flow sections missing or out of order:\n%s", out)
	}
	if strings.Contains(out, "Skill Acquisition Data:") {
		t.Fatal("structured-flow section rendered in activity flow")
	}
	if !strings.Contains(out, "Prompts used: Gestural, Verbal") {
		t.Fatalf("prompts-used line missing:\n%s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		want    string
		wantErr bool
	}{
		{name: "hour_and_minutes", start: "09:00", end: "10:30", want: "1 hour 30 minutes"},
		{name: "minutes_only", start: "09:00", end: "09:45", want: "45 minutes"},
		{name: "whole_hour", start: "09:00", end: "10:00", want: "1 hour"},
		{name: "plural_hours", start: "09:00", end: "11:15", want: "2 hours 15 minutes"},
		{name: "one_minute", start: "09:00", end: "09:01", want: "1 minute"},
		{name: "inverted", start: "10:00", end: "09:00", wantErr: true},
		{name: "equal", start: "09:00", end: "09:00", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatDuration(tc.start, tc.end)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("FormatDuration(%q, %q) = %q, want %q", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
