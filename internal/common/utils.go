package common

import (
	"math"
	"strings"
)

// HasAny returns true if s contains any of the substrings (case-insensitive).
func HasAny(s string, subs ...string) bool {
	ls := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(ls, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// HasAll returns true if s contains every one of the substrings
// (case-insensitive). With no substrings it returns true.
func HasAll(s string, subs ...string) bool {
	ls := strings.ToLower(s)
	for _, sub := range subs {
		if !strings.Contains(ls, strings.ToLower(sub)) {
			return false
		}
	}
	return true
}

// RoundDegree rounds a displayed value (temperature, wind speed) to the
// nearest whole number. Thresholds always compare the raw value; only
// messages and snapshots use the rounded one.
func RoundDegree(v float64) int {
	return int(math.Round(v))
}

// IsFinite reports whether v is a usable numeric reading.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
