package core

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration the way video sites do: "12:34" under
// an hour, "1:02:34" above. Zero and negative durations render as "0:00".
func FormatDuration(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// Truncate shortens a string to at most max runes, appending "..." when
// anything was cut. Used for descriptions in list output.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
