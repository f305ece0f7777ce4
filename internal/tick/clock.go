package tick

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp marks a timestamp section that is not a real UTC instant.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Source supplies the current tick. Generators read time only through a
// Source so tests can pin it.
type Source interface {
	Now(u Unit) int64
}

// System reads the host wall clock.
type System struct{}

// Now returns whole seconds or milliseconds since the Unix epoch, UTC.
func (System) Now(u Unit) int64 {
	return FromTime(time.Now(), u)
}

// FromTime quantizes t to a tick, truncating sub-unit precision.
func FromTime(t time.Time, u Unit) int64 {
	if u == Ms {
		return t.UnixMilli()
	}
	return t.Unix()
}

// ToTime converts a tick back to a UTC time.
func ToTime(tick int64, u Unit) time.Time {
	if u == Ms {
		return time.UnixMilli(tick).UTC()
	}
	return time.Unix(tick, 0).UTC()
}

// Format renders tick as YYYYMMDDTHHMMSS, with a trailing mmm for Ms.
func Format(tick int64, u Unit) string {
	t := ToTime(tick, u)
	base := t.Format("20060102T150405")
	if u != Ms {
		return base
	}
	return base + fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
}

// ParseCalendar parses the 8-digit date and the 6- or 9-digit time-of-day
// sections. Months outside 1-12, days past the end of the month (leap-year
// aware), hours > 23, minutes or seconds > 59 and milliseconds > 999 are all
// rejected with ErrInvalidTimestamp.
func ParseCalendar(date, clock string, u Unit) (time.Time, error) {
	if !u.Valid() || len(date) != 8 || len(clock) != u.Digits() {
		return time.Time{}, ErrInvalidTimestamp
	}
	if !allDigits(date) || !allDigits(clock) {
		return time.Time{}, ErrInvalidTimestamp
	}

	year := atoi(date[0:4])
	month := atoi(date[4:6])
	day := atoi(date[6:8])
	hour := atoi(clock[0:2])
	minute := atoi(clock[2:4])
	second := atoi(clock[4:6])
	ms := 0
	if u == Ms {
		ms = atoi(clock[6:9])
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrInvalidTimestamp
	}
	if hour > 23 || minute > 59 || second > 59 || ms > 999 {
		return time.Time{}, ErrInvalidTimestamp
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, ms*int(time.Millisecond), time.UTC)
	// time.Date normalizes Feb 30 into March; a changed day means it never existed.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// atoi assumes s is all ASCII digits.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
