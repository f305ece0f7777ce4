package tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Sec(t *testing.T) {
	assert.Equal(t, "20260212T091530", Format(1770887730, Sec))
	assert.Equal(t, "19700101T000000", Format(0, Sec))
}

func TestFormat_Ms(t *testing.T) {
	assert.Equal(t, "20260212T091530007", Format(1770887730007, Ms))
	assert.Equal(t, "20000101T000000999", Format(946684800999, Ms))
}

func TestParseCalendar_RoundTrip(t *testing.T) {
	ts, err := ParseCalendar("20260212", "091530", Sec)
	require.NoError(t, err)
	assert.Equal(t, int64(1770887730), FromTime(ts, Sec))
	assert.Equal(t, time.UTC, ts.Location())

	ts, err = ParseCalendar("20260212", "091530007", Ms)
	require.NoError(t, err)
	assert.Equal(t, int64(1770887730007), FromTime(ts, Ms))
}

func TestParseCalendar_LeapDay(t *testing.T) {
	_, err := ParseCalendar("20240229", "235959", Sec)
	assert.NoError(t, err, "2024 is a leap year")

	_, err = ParseCalendar("20230229", "000000", Sec)
	assert.ErrorIs(t, err, ErrInvalidTimestamp, "2023 is not a leap year")

	_, err = ParseCalendar("21000229", "000000", Sec)
	assert.ErrorIs(t, err, ErrInvalidTimestamp, "2100 is not a leap year")

	_, err = ParseCalendar("20000229", "000000", Sec)
	assert.NoError(t, err, "2000 is a leap year")
}

func TestParseCalendar_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		unit  Unit
	}{
		{"month 13", "20261312", "000000", Sec},
		{"month 0", "20260012", "000000", Sec},
		{"day 0", "20260100", "000000", Sec},
		{"day 32", "20260132", "000000", Sec},
		{"feb 30", "20260230", "000000", Sec},
		{"april 31", "20260431", "000000", Sec},
		{"hour 24", "20260101", "240000", Sec},
		{"minute 60", "20260101", "236000", Sec},
		{"second 60", "20260101", "235960", Sec},
		{"non-digit date", "2026O101", "000000", Sec},
		{"non-digit time", "20260101", "00:000", Sec},
		{"short date", "2026010", "000000", Sec},
		{"ms digits for sec", "20260101", "000000000", Sec},
		{"sec digits for ms", "20260101", "000000", Ms},
		{"unknown unit", "20260101", "000000", Unit("ns")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCalendar(tt.date, tt.clock, tt.unit)
			assert.ErrorIs(t, err, ErrInvalidTimestamp)
		})
	}
}

func TestToTime_InverseOfFromTime(t *testing.T) {
	now := time.Date(2031, 7, 4, 12, 30, 45, 123_456_789, time.UTC)

	assert.Equal(t, int64(now.Unix()), FromTime(ToTime(FromTime(now, Sec), Sec), Sec))
	assert.Equal(t, now.UnixMilli(), FromTime(ToTime(FromTime(now, Ms), Ms), Ms))
}

func TestSystem_Now(t *testing.T) {
	before := time.Now().Unix()
	got := System{}.Now(Sec)
	after := time.Now().Unix()

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}
