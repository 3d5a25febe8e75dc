package prompt

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders the span between two times-of-day as
// "H hour(s) M minute(s)", dropping whichever component is zero.
// (09:00, 10:30) -> "1 hour 30 minutes"; (09:00, 09:45) -> "45 minutes";
// (09:00, 10:00) -> "1 hour".
func FormatDuration(startTime, endTime string) (string, error) {
	start, err := time.Parse("15:04", strings.TrimSpace(startTime))
	if err != nil {
		return "", fmt.Errorf("parse start time %q: %w", startTime, err)
	}
	end, err := time.Parse("15:04", strings.TrimSpace(endTime))
	if err != nil {
		return "", fmt.Errorf("parse end time %q: %w", endTime, err)
	}
	if !end.After(start) {
		return "", fmt.Errorf("end time %q is not after start time %q", endTime, startTime)
	}

	total := int(end.Sub(start).Minutes())
	hours := total / 60
	minutes := total % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural(hours, "hour")))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, plural(minutes, "minute")))
	}
	return strings.Join(parts, " "), nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
