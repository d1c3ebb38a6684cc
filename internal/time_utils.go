package internal

import "time"

const (
	// DisplayTimeFormat is the standard time format used across the application
	DisplayTimeFormat = "2006-01-02 15:04:05"
	// NeverUsed is shown for timestamps AWS has not recorded
	NeverUsed = "-"
)

// FormatTime formats an optional AWS timestamp in local time
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NeverUsed
	}
	return t.Local().Format(DisplayTimeFormat)
}

// DaysSince returns the whole days elapsed since t, or -1 when t is unset
func DaysSince(t *time.Time, now time.Time) int {
	if t == nil || t.IsZero() {
		return -1
	}
	return int(now.Sub(*t).Hours() / 24)
}
