package util //nolint:revive // package name util hosts shared formatting helpers used by the CLI

import (
	"fmt"
	"time"
)

// FormatMinutes formats planned shift minutes for display.
// Returns "-" for zero or negative values.
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// FormatElapsed formats a time.Duration for display, handling edge cases.
// Returns "-" for zero or negative durations, truncates to seconds for readability.
func FormatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Truncate(time.Millisecond).String()
	default:
		return d.Truncate(time.Second).String()
	}
}

// Deref returns the pointed-to string or fallback when p is nil or empty.
func Deref(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}
