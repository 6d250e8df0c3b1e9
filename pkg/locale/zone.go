package locale

import (
	"strings"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "UTC"

// legacyZones maps deprecated or Windows-style identifiers that booking
// payloads still carry onto canonical IANA names.
var legacyZones = map[string]string{
	"us/eastern":            "America/New_York",
	"us/central":            "America/Chicago",
	"us/mountain":           "America/Denver",
	"us/pacific":            "America/Los_Angeles",
	"israel":                "Asia/Jerusalem",
	"asia/tel_aviv":         "Asia/Jerusalem",
	"asia/calcutta":         "Asia/Kolkata",
	"europe/kiev":           "Europe/Kyiv",
	"gmt":                   "UTC",
	"etc/utc":               "UTC",
	"eastern standard time": "America/New_York",
	"pacific standard time": "America/Los_Angeles",
	"gmt standard time":     "Europe/London",
}

// ResolveLocation loads tz, falling back to UTC for empty or unknown names.
// The returned bool reports whether tz was recognised.
func ResolveLocation(tz string) (*time.Location, bool) {
	name := strings.TrimSpace(tz)
	if name == "" {
		return time.UTC, false
	}

	if canonical, ok := legacyZones[strings.ToLower(name)]; ok {
		name = canonical
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}

	return loc, true
}
