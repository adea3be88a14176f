// Package timeutil converts upstream ISO-8601 timestamps into display form.
package timeutil

import "time"

// HumanLayout renders timestamps like "November 06, 2025 at 08:56 PM UTC".
const HumanLayout = "January 02, 2006 at 03:04 PM UTC"

// FormatDateTime converts an ISO-8601 timestamp to a human-readable string.
// Empty input yields "N/A"; unparseable input is returned as-is so callers
// never lose the upstream value.
func FormatDateTime(iso string) string {
	if iso == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format(HumanLayout)
}

// ParseISO parses an ISO-8601 timestamp into UTC.
func ParseISO(iso string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
