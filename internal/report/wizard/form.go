package wizard

import (
	"github.com/google/uuid"
)

// Flow selects which wizard variant a draft uses. The structured flow walks
// skills, behaviors and reinforcement as separate steps; the activity-based
// flow groups observations under the activities they happened in.
type Flow string

const (
	FlowStructured Flow = "structured"
	FlowActivity   Flow = "activity"
)

// Step identifies one page of the wizard.
type Step string

const (
	StepBasicInfo        Step = "basic_info"
	StepSkillAcquisition Step = "skill_acquisition"
	StepBehaviorTracking Step = "behavior_tracking"
	StepReinforcement    Step = "reinforcement"
	StepActivities       Step = "activities"
	StepGeneralNotes     Step = "general_notes"
	StepReview           Step = "review"
)

// flowSteps is the single source of truth for step ordering per flow.
// StepReview is terminal: the generation page, no forward transition.
var flowSteps = map[Flow][]Step{
	FlowStructured: {
		StepBasicInfo,
		StepSkillAcquisition,
		StepBehaviorTracking,
		StepReinforcement,
		StepGeneralNotes,
		StepReview,
	},
	FlowActivity: {
		StepBasicInfo,
		StepActivities,
		StepGeneralNotes,
		StepReview,
	},
}

func StepsFor(flow Flow) []Step {
	steps := flowSteps[flow]
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

type Intensity string

const (
	IntensityMild     Intensity = "mild"
	IntensityModerate Intensity = "moderate"
	IntensitySevere   Intensity = "severe"
)

type ReinforcerType string

const (
	ReinforcerPrimary   ReinforcerType = "primary"
	ReinforcerSecondary ReinforcerType = "secondary"
	ReinforcerSocial    ReinforcerType = "social"
	ReinforcerActivity  ReinforcerType = "activity"
)

// DefaultEffectiveness is the mid-scale value a reinforcer falls back to when
// the clinician never touched the rating.
const DefaultEffectiveness = 3

type BasicInfo struct {
	SessionDate string    `json:"session_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	ClientID    uuid.UUID `json:"client_id"`
}

type Skill struct {
	Program     string `json:"program"`
	Target      string `json:"target"`
	Trials      int    `json:"trials"`
	Correct     int    `json:"correct"`
	Prompted    int    `json:"prompted"`
	Incorrect   int    `json:"incorrect"`
	Mastery     int    `json:"mastery"`
	PromptLevel string `json:"prompt_level"`
	Notes       string `json:"notes"`
}

type SkillAcquisition struct {
	Skills []Skill `json:"skills"`
}

type Behavior struct {
	Name            string    `json:"name"`
	Definition      string    `json:"definition"`
	Frequency       int       `json:"frequency"`
	DurationMinutes int       `json:"duration_minutes"`
	Intensity       Intensity `json:"intensity"`
	Antecedent      string    `json:"antecedent"`
	Consequence     string    `json:"consequence"`
	Intervention    string    `json:"intervention"`
	Notes           string    `json:"notes"`
}

type BehaviorTracking struct {
	Behaviors []Behavior `json:"behaviors"`
}

type Reinforcer struct {
	Name          string         `json:"name"`
	Type          ReinforcerType `json:"type"`
	Effectiveness int            `json:"effectiveness"`
	Notes         string         `json:"notes"`
}

type Reinforcement struct {
	Reinforcers []Reinforcer `json:"reinforcers"`
}

// Activity is one block of the activity-based flow. Each activity owns the
// behaviors seen during it, the prompt levels used, exactly one reinforcement
// record, and optional skill trials.
type Activity struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Behaviors     []Behavior `json:"behaviors"`
	PromptsUsed   []string   `json:"prompts_used"`
	Reinforcement Reinforcer `json:"reinforcement"`
	SkillTrials   []Skill    `json:"skill_trials"`
}

type Activities struct {
	InitialStatus string     `json:"initial_status"`
	Activities    []Activity `json:"activities"`
}

type GeneralNotes struct {
	SessionNotes         string `json:"session_notes"`
	CaregiverFeedback    string `json:"caregiver_feedback"`
	EnvironmentalFactors string `json:"environmental_factors"`
	NextSessionFocus     string `json:"next_session_focus"`
}

// SessionFormState is the aggregate for one in-progress report. It lives only
// for the lifetime of a draft and is owned exclusively by the Controller.
type SessionFormState struct {
	Flow             Flow             `json:"flow"`
	BasicInfo        BasicInfo        `json:"basic_info"`
	SkillAcquisition SkillAcquisition `json:"skill_acquisition"`
	BehaviorTracking BehaviorTracking `json:"behavior_tracking"`
	Reinforcement    Reinforcement    `json:"reinforcement"`
	Activities       Activities       `json:"activities"`
	GeneralNotes     GeneralNotes     `json:"general_notes"`
	CurrentStep      Step             `json:"current_step"`
}

func NewSessionFormState(flow Flow) SessionFormState {
	return SessionFormState{
		Flow:        flow,
		CurrentStep: flowSteps[flow][0],
	}
}
