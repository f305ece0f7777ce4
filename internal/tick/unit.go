package tick

import (
	"errors"
	"strings"
)

// ErrUnknownUnit is returned by ParseUnit for anything other than sec or ms.
var ErrUnknownUnit = errors.New("time unit must be sec or ms")

// Unit selects the tick resolution.
type Unit string

const (
	Sec Unit = "sec"
	Ms  Unit = "ms"
)

// ParseUnit converts textual units ("sec", "ms", case-insensitive) into a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sec":
		return Sec, nil
	case "ms":
		return Ms, nil
	default:
		return "", ErrUnknownUnit
	}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	return u == Sec || u == Ms
}

// Digits is the width of the time-of-day section: HHMMSS or HHMMSSmmm.
func (u Unit) Digits() int {
	if u == Ms {
		return 9
	}
	return 6
}

func (u Unit) String() string {
	return string(u)
}
