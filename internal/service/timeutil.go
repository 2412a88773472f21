package service

import "strings"

// NormalizeTime brings a time string to HH:MM:SS form so that "10:00"
// and "10:00:00" compare equal. Every place that matches a slot time
// against an availability time must go through this.
func NormalizeTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) == 5 {
		return t + ":00"
	}
	if len(t) > 8 {
		return t[:8]
	}
	return t
}

// ShortTime truncates a time string to HH:MM for display.
func ShortTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// SameTime reports whether two time strings denote the same local time
// regardless of whether either carries seconds.
func SameTime(a, b string) bool {
	return NormalizeTime(a) == NormalizeTime(b)
}
