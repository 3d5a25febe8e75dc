package sections

import (
	"regexp"
	"strings"
)

// Section names are the fixed keys every parsed report carries.
const (
	SectionSummary          = "summary"
	SectionSkillAcquisition = "skillAcquisition"
	SectionBehaviorMgmt     = "behaviorManagement"
	SectionReinforcement    = "reinforcement"
	SectionObservations     = "observations"
	SectionRecommendations  = "recommendations"
	SectionNextSteps        = "nextSteps"
)

// Names lists all section keys in canonical report order.
var Names = []string{
	SectionSummary,
	SectionSkillAcquisition,
	SectionBehaviorMgmt,
	SectionReinforcement,
	SectionObservations,
	SectionRecommendations,
	SectionNextSteps,
}

// Parser segments generated report text into named sections. The generation
// service returns unstructured prose by design; keeping the extraction behind
// this interface lets a structured-output contract replace the heading scan
// without touching callers.
type Parser interface {
	Parse(fullText string) map[string]string
}

var fallbacks = map[string]string{
	SectionSummary:          "No summary provided.",
	SectionSkillAcquisition: "No skill acquisition data provided.",
	SectionBehaviorMgmt:     "No behavior management data provided.",
	SectionReinforcement:    "No reinforcement data provided.",
	SectionObservations:     "No observations provided.",
	SectionRecommendations:  "No recommendations provided.",
	SectionNextSteps:        "No next steps provided.",
}

// Fallback returns the placeholder text used when a section heading is not
// found in the generated text.
func Fallback(name string) string {
	return fallbacks[name]
}

// headingPatterns match a heading line for each section: optional markdown
// heading markers, list numbering, or bold markers around the keyword, with
// an optional trailing colon. Matching is per-line and case-insensitive.
var headingPatterns = map[string]*regexp.Regexp{
	SectionSummary:          headingPattern(`(?:session\s+)?summary`),
	SectionSkillAcquisition: headingPattern(`skill\s+acquisition`),
	SectionBehaviorMgmt:     headingPattern(`behavior\s+management`),
	SectionReinforcement:    headingPattern(`reinforcement`),
	SectionObservations:     headingPattern(`observations`),
	SectionRecommendations:  headingPattern(`recommendations`),
	SectionNextSteps:        headingPattern(`next\s+steps`),
}

func headingPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\d+[.)]\s*)?(?:\*{1,2})?\s*(?:` + keyword + `)\s*(?:\*{1,2})?\s*:?\s*$`)
}

type headingParser struct{}

// NewHeadingParser returns the heading-keyword parser.
func NewHeadingParser() Parser {
	return headingParser{}
}

type headingMatch struct {
	section string
	line    int
}

// Parse never fails: any section whose heading is absent gets its fallback
// placeholder, so callers can render a complete report unconditionally.
// When a section heading appears more than once, the first occurrence wins;
// no semantic repair of malformed output is attempted.
func (headingParser) Parse(fullText string) map[string]string {
	lines := strings.Split(fullText, "\n")

	var matches []headingMatch
	seen := map[string]bool{}
	for i, line := range lines {
		for _, name := range Names {
			if seen[name] {
				continue
			}
			if headingPatterns[name].MatchString(line) {
				matches = append(matches, headingMatch{section: name, line: i})
				seen[name] = true
				break
			}
		}
	}

	out := make(map[string]string, len(Names))
	for _, name := range Names {
		out[name] = fallbacks[name]
	}

	for idx, m := range matches {
		endLine := len(lines)
		if idx+1 < len(matches) {
			endLine = matches[idx+1].line
		}
		content := strings.TrimSpace(strings.Join(lines[m.line+1:endLine], "\n"))
		if content != "" {
			out[m.section] = content
		}
	}

	return out
}
