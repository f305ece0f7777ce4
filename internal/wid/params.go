package wid

import (
	"fmt"
	"strings"

	"github.com/roach88/wid/internal/tick"
)

// Defaults shared by generation and validation.
const (
	DefaultW = 4
	DefaultZ = 6
)

// Kind selects the identifier family.
type Kind string

const (
	KindWID Kind = "wid"
	KindHLC Kind = "hlc"
)

// ParseKind accepts "wid" and "hlc" (also "hlc-wid"), case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wid":
		return KindWID, nil
	case "hlc", "hlc-wid", "hlc_wid":
		return KindHLC, nil
	default:
		return "", newConfigError(ErrCodeInvalidKind, "kind", "kind must be wid or hlc, got %q", s)
	}
}

// Params are the structural parameters of a namespace. Generation and
// validation must agree on all three.
type Params struct {
	// W is the sequence / logical counter width in digits.
	W int

	// Z is the padding length in lowercase-hex characters; 0 disables padding.
	Z int

	// Unit is the tick resolution.
	Unit tick.Unit
}

// DefaultParams returns W=4, Z=6, second resolution.
func DefaultParams() Params {
	return Params{W: DefaultW, Z: DefaultZ, Unit: tick.Sec}
}

// Validate returns a *ConfigError for non-positive W, negative Z or an
// unknown unit.
func (p Params) Validate() error {
	if p.W <= 0 {
		return newConfigError(ErrCodeInvalidW, "W", "W must be > 0, got %d", p.W)
	}
	// 10^W must fit in an int counter.
	if p.W > 18 {
		return newConfigError(ErrCodeInvalidW, "W", "W must be <= 18, got %d", p.W)
	}
	if p.Z < 0 {
		return newConfigError(ErrCodeInvalidZ, "Z", "Z must be >= 0, got %d", p.Z)
	}
	if !p.Unit.Valid() {
		return newConfigError(ErrCodeInvalidTimeUnit, "time_unit", "time unit must be sec or ms, got %q", p.Unit)
	}
	return nil
}

// MaxSeq is 10^W - 1, the largest sequence or logical counter for W.
func (p Params) MaxSeq() int {
	n := 1
	for i := 0; i < p.W; i++ {
		n *= 10
	}
	return n - 1
}

// Key is the persisted-state key for this parameter set:
// "wid:<namespace>:<W>:<Z>:<unit>". Distinct parameters never share a key.
func (p Params) Key(namespace string) string {
	return fmt.Sprintf("wid:%s:%d:%d:%s", namespace, p.W, p.Z, p.Unit)
}
