// Package timeutil converts provider timestamps (UTC) to the display zone.
package timeutil

import (
	"strings"
	"time"
)

// IST is UTC+05:30. A fixed zone keeps output independent of the host tzdata.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const displayLayout = "2006-01-02 15:04:05"

var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseUTC parses a provider timestamp. Fractional seconds are ignored and an
// explicit zone suffix (Z or offset) is honored.
func ParseUTC(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Truncate(time.Second), true
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatIST renders t in IST with the " IST" suffix.
func FormatIST(t time.Time) string {
	return t.In(IST).Format(displayLayout) + " IST"
}

// DisplayIST converts a raw provider timestamp for display. Unparseable input
// is passed through with the suffix appended.
func DisplayIST(raw string) string {
	t, ok := ParseUTC(raw)
	if !ok {
		if strings.TrimSpace(raw) == "" {
			raw = "Unknown"
		}
		return raw + " IST"
	}
	return FormatIST(t)
}
