package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func refAt(hour, min int) time.Time {
	return time.Date(2024, 5, 10, hour, min, 0, 0, time.Local)
}

func Test_ParseRange_NowToEvening(t *testing.T) {
	refs := []time.Time{refAt(9, 0), refAt(13, 5), refAt(21, 45), refAt(23, 59)}
	for _, ref := range refs {
		r, err := ParseRange("now-8:30pm", ref)
		assert.Nil(t, err)
		assert.Equal(t, FormatClock(ref), r.Start)
		assert.Equal(t, "20:30", r.End)
		assert.Equal(t, DefaultZone, r.Timezone)
	}
}

func Test_ParseRange_ZoneAbbreviation(t *testing.T) {
	r, err := ParseRange("now-1:04 EST", refAt(10, 0))
	assert.Nil(t, err)
	assert.Equal(t, "America/New_York", r.Timezone)
}

func Test_ExtractZone_FirstListedWins(t *testing.T) {
	// scanning order is fixed, so EST beats PST regardless of input position
	zone, cleaned := extractZone("now-1:04 PST EST")
	assert.Equal(t, "America/New_York", zone)
	assert.Contains(t, cleaned, "PST")
}

func Test_ParseRange_CanonicalZoneName(t *testing.T) {
	r, err := ParseRange("6:00-9:30 Europe/Paris", refAt(1, 0))
	assert.Nil(t, err)
	assert.Equal(t, "Europe/Paris", r.Timezone)
}

func Test_ParseRange_MissingDash(t *testing.T) {
	_, err := ParseRange("garbage", refAt(10, 0))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func Test_ParseRange_BadClockGrammar(t *testing.T) {
	_, err := ParseRange("now-soonish", refAt(10, 0))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func Test_ParseRange_MinutesOutOfRange(t *testing.T) {
	_, err := ParseRange("now-18:99", refAt(10, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeValue)
}

func Test_ParseTime_MinutesOutOfRange(t *testing.T) {
	_, err := ParseTime("18:99", refAt(10, 0), nil)
	assert.ErrorIs(t, err, ErrInvalidTimeValue)
}

func Test_ParseTime_AmPm(t *testing.T) {
	ref := refAt(9, 0)

	got, err := ParseTime("6pm", ref, nil)
	assert.Nil(t, err)
	assert.Equal(t, "18:00", got)

	got, err = ParseTime("12am", ref, nil)
	assert.Nil(t, err)
	// midnight rolls forward to tomorrow, clock value is unchanged
	assert.Equal(t, "00:00", got)
}

func Test_ParseTime_AfternoonAmbiguity(t *testing.T) {
	// "1:30" typed just after 1pm means 13:30, not 01:30
	got, err := ParseTime("1:30", refAt(13, 5), nil)
	assert.Nil(t, err)
	assert.Equal(t, "13:30", got)

	// in the morning the literal reading wins
	got, err = ParseTime("9:30", refAt(8, 0), nil)
	assert.Nil(t, err)
	assert.Equal(t, "09:30", got)
}

func Test_ParseTime_NearPastKept(t *testing.T) {
	// 30 minutes in the past stays today; callers treat it as expired
	got, err := ParseTime("13:00", refAt(13, 30), nil)
	assert.Nil(t, err)
	assert.Equal(t, "13:00", got)
	assert.True(t, IsExpired(got, refAt(13, 30)))
}

func Test_IsExpired_WithinThreeHours(t *testing.T) {
	assert.True(t, IsExpired("13:00", refAt(13, 5)))
	assert.True(t, IsExpired("13:00", refAt(13, 0)))
	assert.True(t, IsExpired("13:00", refAt(16, 0)))
}

func Test_IsExpired_RollsToTomorrow(t *testing.T) {
	// more than 3 hours back is read as tomorrow's 13:00
	assert.False(t, IsExpired("13:00", refAt(17, 1)))
	assert.False(t, IsExpired("13:00", refAt(23, 59)))
}

func Test_IsExpired_FutureSameDay(t *testing.T) {
	assert.False(t, IsExpired("20:30", refAt(13, 5)))
}

func Test_IsExpired_Malformed(t *testing.T) {
	assert.False(t, IsExpired("whenever", refAt(13, 5)))
}

func Test_RecognizedZones_CopyIsIsolated(t *testing.T) {
	zones := RecognizedZones()
	assert.Contains(t, zones, "America/New_York")
	zones[0] = "mutated"
	assert.Equal(t, "UTC", RecognizedZones()[0])
}
