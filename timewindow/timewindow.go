package timewindow

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidFormat    = errors.New("timewindow: invalid time range format")
	ErrInvalidTimeValue = errors.New("timewindow: time value out of range")
)

// DefaultZone is the label carried by windows that were entered without a
// recognized timezone token. Clock values are always stored in the server's
// local frame; the zone is informational metadata only.
const DefaultZone = "UTC"

// zoneAbbreviations maps common North American abbreviations to canonical
// zone names. Order matters: extraction scans the list front to back and the
// first abbreviation found in the input wins.
var zoneAbbreviations = []struct {
	Abbr string
	Zone string
}{
	{"EST", "America/New_York"},
	{"EDT", "America/New_York"},
	{"CST", "America/Chicago"},
	{"CDT", "America/Chicago"},
	{"MST", "America/Denver"},
	{"MDT", "America/Denver"},
	{"PST", "America/Los_Angeles"},
	{"PDT", "America/Los_Angeles"},
	{"GMT", "UTC"},
	{"UTC", "UTC"},
}

var recognizedZones = []string{
	"UTC",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"Europe/London",
	"Europe/Paris",
	"Asia/Tokyo",
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?$`)

// Range is a participant-declared availability window. Start and End are
// HH:MM clock values in the server's local frame.
type Range struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

func (r Range) String() string {
	s := fmt.Sprintf("%s to %s", r.Start, r.End)
	if r.Timezone != DefaultZone {
		s += " (" + r.Timezone + ")"
	}
	return s
}

// ParseRange parses input such as "now-8:30pm", "6:00-9:30 PST" or
// "now-1:04 EST" into a normalized Range relative to ref.
func ParseRange(text string, ref time.Time) (Range, error) {
	if !strings.Contains(text, "-") {
		return Range{}, ErrInvalidFormat
	}

	zone, cleaned := extractZone(text)

	loc := ref.Location()
	if zone != DefaultZone {
		if l, err := time.LoadLocation(zone); err == nil {
			loc = l
		}
	}

	parts := strings.SplitN(cleaned, "-", 2)
	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	var start string
	if strings.EqualFold(startStr, "now") {
		start = FormatClock(ref)
	} else {
		parsed, err := ParseTime(startStr, ref, loc)
		if err != nil {
			return Range{}, err
		}
		start = parsed
	}

	end, err := ParseTime(endStr, ref, loc)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: start, End: end, Timezone: zone}, nil
}

// ParseTime parses a single clock token ("8:30", "6pm", "18:45", "9") into a
// normalized HH:MM value in ref's frame. loc is the zone the participant
// entered the time in; the result is converted back to ref's location.
func ParseTime(text string, ref time.Time, loc *time.Location) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	isAM := strings.Contains(lower, "am")
	isPM := strings.Contains(lower, "pm")
	cleaned := strings.TrimSpace(strings.NewReplacer("am", "", "pm", "").Replace(lower))

	match := clockPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return "", ErrInvalidFormat
	}

	hours, _ := strconv.Atoi(match[1])
	minutes := 0
	if match[2] != "" {
		minutes, _ = strconv.Atoi(match[2])
	}

	if isPM && hours < 12 {
		hours += 12
	} else if isAM && hours == 12 {
		hours = 0
	}

	if hours < 0 || hours > 23 {
		return "", ErrInvalidTimeValue
	}
	if minutes < 0 || minutes > 59 {
		return "", ErrInvalidTimeValue
	}

	// A bare "1:30" typed in the afternoon almost always means 13:30, not
	// 01:30. Pick the +12 reading when it lands closer to the current hour.
	if !isAM && !isPM && hours < 12 && ref.Hour() >= 12 {
		if abs(hours+12-ref.Hour()) < abs(hours-ref.Hour()) {
			hours += 12
		}
	}

	if loc == nil {
		loc = ref.Location()
	}
	t := time.Date(ref.Year(), ref.Month(), ref.Day(), hours, minutes, 0, 0, loc).In(ref.Location())

	// More than an hour in the past means the participant meant tomorrow.
	// Anything within the last hour is left as-is for callers to treat as
	// already expired.
	if t.Before(ref) && ref.Sub(t) > time.Hour {
		t = t.AddDate(0, 0, 1)
	}

	return FormatClock(t), nil
}

// IsExpired reports whether the HH:MM end value has elapsed relative to ref.
// An end within the previous 3 hours counts as today's and is expired; one
// further back is assumed to denote tomorrow.
func IsExpired(end string, ref time.Time) bool {
	parts := strings.SplitN(end, ":", 2)
	if len(parts) != 2 {
		return false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}

	endTime := time.Date(ref.Year(), ref.Month(), ref.Day(), hours, minutes, 0, 0, ref.Location())
	if endTime.Before(ref) && ref.Sub(endTime) > 3*time.Hour {
		endTime = endTime.AddDate(0, 0, 1)
	}

	return !ref.Before(endTime)
}

// FormatClock renders t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// Now returns the current server time as HH:MM.
func Now() string {
	return FormatClock(time.Now())
}

// NowWithZone renders the current server date and time with its UTC offset,
// e.g. "2024-05-01 18:30 (UTC+2)".
func NowWithZone() string {
	now := time.Now()
	_, offset := now.Zone()
	return fmt.Sprintf("%s %s (UTC%+d)", now.Format("2006-01-02"), FormatClock(now), offset/3600)
}

// RecognizedZones returns the canonical zone names accepted in range input.
func RecognizedZones() []string {
	zones := make([]string, len(recognizedZones))
	copy(zones, recognizedZones)
	return zones
}

func extractZone(text string) (string, string) {
	upper := strings.ToUpper(text)
	for _, entry := range zoneAbbreviations {
		if idx := strings.Index(upper, entry.Abbr); idx != -1 {
			return entry.Zone, strings.TrimSpace(text[:idx] + text[idx+len(entry.Abbr):])
		}
	}
	for _, zone := range recognizedZones {
		if idx := strings.Index(text, zone); idx != -1 {
			return zone, strings.TrimSpace(text[:idx] + text[idx+len(zone):])
		}
	}
	return DefaultZone, text
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
