package prompt

import (
	"fmt"
	"strings"

	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
)

// closingInstructions is the fixed trailing block telling the generation
// service what shape of narrative to produce. The headings listed here are
// the ones the section parser recognizes.
const closingInstructions = `Write a professional ABA session report based on the data above.

Requirements:
- Use a clinical but readable tone, written in third person.
- Organize the report under these headings, in this order: Summary, Skill Acquisition, Behavior Management, Reinforcement, Observations, Recommendations, Next Steps.
- Describe data factually; do not invent observations that are not in the data.
- Keep the full report between 400 and 700 words.
- Format the report as Markdown.`

// Assemble turns the aggregate form state plus the client and clinician
// display names into the single prompt string for the generation service.
// It is deterministic: identical inputs produce byte-identical output.
// Identity arrives as explicit parameters; nothing is read from ambient
// state, and internal identifiers never appear in the prompt.
func Assemble(state wizard.SessionFormState, clientName, rbtName string) (string, error) {
	var b strings.Builder

	writeLine(&b, "Client", clientName)
	writeLine(&b, "Clinician (RBT)", rbtName)
	b.WriteString("\n")

	if err := writeSessionInfo(&b, state.BasicInfo); err != nil {
		return "", err
	}

	switch state.Flow {
	case wizard.FlowActivity:
		writeActivities(&b, state.Activities)
	default:
		writeSkills(&b, state.SkillAcquisition)
		writeBehaviors(&b, state.BehaviorTracking)
		writeReinforcement(&b, state.Reinforcement)
	}

	writeGeneralNotes(&b, state.GeneralNotes)

	b.WriteString(closingInstructions)
	return b.String(), nil
}

func writeSessionInfo(b *strings.Builder, info wizard.BasicInfo) error {
	duration, err := FormatDuration(info.StartTime, info.EndTime)
	if err != nil {
		return fmt.Errorf("session duration: %w", err)
	}
	b.WriteString("Session Information:\n")
	writeItem(b, "Date", info.SessionDate)
	writeItem(b, "Time", info.StartTime+" to "+info.EndTime)
	writeItem(b, "Duration", duration)
	writeItem(b, "Location", info.Location)
	b.WriteString("\n")
	return nil
}

func writeSkills(b *strings.Builder, sa wizard.SkillAcquisition) {
	if len(sa.Skills) == 0 {
		return
	}
	b.WriteString("Skill Acquisition Data:\n")
	for i, s := range sa.Skills {
		fmt.Fprintf(b, "%d. Program: %s, Target: %s\n", i+1, s.Program, s.Target)
		writeItem(b, "Trials", fmt.Sprintf("%d (%d correct, %d prompted, %d incorrect)", s.Trials, s.Correct, s.Prompted, s.Incorrect))
		writeItem(b, "Mastery", fmt.Sprintf("%d%%", s.Mastery))
		writeItem(b, "Prompt level", s.PromptLevel)
		writeItem(b, "Notes", s.Notes)
	}
	b.WriteString("\n")
}

func writeBehaviors(b *strings.Builder, bt wizard.BehaviorTracking) {
	if len(bt.Behaviors) == 0 {
		return
	}
	b.WriteString("Behavior Data:\n")
	for i, bh := range bt.Behaviors {
		fmt.Fprintf(b, "%d. Behavior: %s\n", i+1, bh.Name)
		writeItem(b, "Definition", bh.Definition)
		writeItem(b, "Frequency", fmt.Sprintf("%d occurrences", bh.Frequency))
		if bh.DurationMinutes > 0 {
			writeItem(b, "Duration", fmt.Sprintf("%d minutes", bh.DurationMinutes))
		}
		writeItem(b, "Intensity", intensityLabel(bh.Intensity))
		writeItem(b, "Antecedent", bh.Antecedent)
		writeItem(b, "Consequence", bh.Consequence)
		writeItem(b, "Intervention", bh.Intervention)
		writeItem(b, "Notes", bh.Notes)
	}
	b.WriteString("\n")
}

func writeReinforcement(b *strings.Builder, r wizard.Reinforcement) {
	if len(r.Reinforcers) == 0 {
		return
	}
	b.WriteString("Reinforcement Data:\n")
	for i, re := range r.Reinforcers {
		fmt.Fprintf(b, "%d. Reinforcer: %s\n", i+1, re.Name)
		writeItem(b, "Type", reinforcerTypeLabel(re.Type))
		writeItem(b, "Effectiveness", fmt.Sprintf("%d out of 5", re.Effectiveness))
		writeItem(b, "Notes", re.Notes)
	}
	b.WriteString("\n")
}

func writeActivities(b *strings.Builder, a wizard.Activities) {
	if strings.TrimSpace(a.InitialStatus) != "" {
		b.WriteString("Status at Start of Session:\n")
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(a.InitialStatus))
	}
	if len(a.Activities) == 0 {
		return
	}
	b.WriteString("Session Activities:\n")
	for i, act := range a.Activities {
		fmt.Fprintf(b, "%d. Activity: %s\n", i+1, act.Name)
		writeItem(b, "Description", act.Description)
		if len(act.PromptsUsed) > 0 {
			writeItem(b, "Prompts used", strings.Join(act.PromptsUsed, ", "))
		}
		for _, bh := range act.Behaviors {
			writeItem(b, "Behavior observed", behaviorSummary(bh))
		}
		writeItem(b, "Reinforcement", reinforcerSummary(act.Reinforcement))
		for _, s := range act.SkillTrials {
			writeItem(b, "Skill trial", fmt.Sprintf("%s (%s): %d trials, %d correct, %d prompted, %d incorrect",
				s.Program, s.Target, s.Trials, s.Correct, s.Prompted, s.Incorrect))
		}
	}
	b.WriteString("\n")
}

func behaviorSummary(bh wizard.Behavior) string {
	parts := []string{bh.Name}
	if bh.Intensity != "" {
		parts = append(parts, strings.ToLower(intensityLabel(bh.Intensity))+" intensity")
	}
	if bh.Frequency > 0 {
		parts = append(parts, fmt.Sprintf("%d occurrences", bh.Frequency))
	}
	return strings.Join(parts, ", ")
}

func reinforcerSummary(r wizard.Reinforcer) string {
	if strings.TrimSpace(r.Name) == "" {
		return ""
	}
	return fmt.Sprintf("%s (%s, effectiveness %d out of 5)", r.Name, strings.ToLower(reinforcerTypeLabel(r.Type)), r.Effectiveness)
}

func writeGeneralNotes(b *strings.Builder, n wizard.GeneralNotes) {
	b.WriteString("General Notes:\n")
	writeItem(b, "Session notes", n.SessionNotes)
	writeItem(b, "Caregiver feedback", n.CaregiverFeedback)
	writeItem(b, "Environmental factors", n.EnvironmentalFactors)
	writeItem(b, "Focus for next session", n.NextSessionFocus)
	b.WriteString("\n")
}

// writeItem emits "  - Label: value" and omits the line entirely when the
// value is blank, so no section ever renders a label with an empty value.
func writeItem(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  - %s: %s\n", label, value)
}

func writeLine(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func intensityLabel(i wizard.Intensity) string {
	switch i {
	case wizard.IntensityMild:
		return "Mild"
	case wizard.IntensityModerate:
		return "Moderate"
	case wizard.IntensitySevere:
		return "Severe"
	default:
		return string(i)
	}
}

func reinforcerTypeLabel(t wizard.ReinforcerType) string {
	switch t {
	case wizard.ReinforcerPrimary:
		return "Primary"
	case wizard.ReinforcerSecondary:
		return "Secondary"
	case wizard.ReinforcerSocial:
		return "Social"
	case wizard.ReinforcerActivity:
		return "Activity-based"
	default:
		return string(t)
	}
}
