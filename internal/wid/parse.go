package wid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/roach88/wid/internal/suffix"
	"github.com/roach88/wid/internal/tick"
)

// Parser validates identifiers of one kind against fixed params. The
// pattern is compiled once per parser; parsers are immutable and safe for
// concurrent use.
type Parser struct {
	params Params
	kind   Kind
	head   *regexp.Regexp
}

// NewParser returns a *ConfigError for invalid params or kind.
func NewParser(p Params, kind Kind) (*Parser, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if kind != KindWID && kind != KindHLC {
		return nil, newConfigError(ErrCodeInvalidKind, "kind", "kind must be wid or hlc, got %q", kind)
	}
	// Groups: date, time of day, counter, suffix. W is structural: the
	// counter must be followed directly by Z.
	head := regexp.MustCompile(fmt.Sprintf(`^([0-9]{8})T([0-9]{%d})\.([0-9]{%d})Z(.*)$`, p.Unit.Digits(), p.W))
	return &Parser{params: p, kind: kind, head: head}, nil
}

// Params returns the parser's structural parameters.
func (ps *Parser) Params() Params {
	return ps.params
}

// Kind returns the identifier family this parser accepts.
func (ps *Parser) Kind() Kind {
	return ps.kind
}

// Validate reports whether text is a well-formed identifier.
func (ps *Parser) Validate(text string) bool {
	_, err := ps.Parse(text)
	return err == nil
}

// Parse returns a *Wid or *HLCWid, or a *RejectError.
func (ps *Parser) Parse(text string) (Record, error) {
	if ps.kind == KindHLC {
		rec, err := ps.parseHLC(text)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	rec, err := ps.parseWid(text)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// fixed is the timestamp and counter section shared by both kinds.
type fixed struct {
	tick int64
	when time.Time
	n    int
	rest string
}

func (ps *Parser) parseFixed(text string) (fixed, error) {
	m := ps.head.FindStringSubmatch(text)
	if m == nil {
		return fixed{}, &RejectError{Reason: RejectFormat, Input: text}
	}
	t, err := tick.ParseCalendar(m[1], m[2], ps.params.Unit)
	if err != nil {
		return fixed{}, &RejectError{Reason: RejectTimestamp, Input: text}
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return fixed{}, &RejectError{Reason: RejectFormat, Input: text}
	}
	return fixed{tick: tick.FromTime(t, ps.params.Unit), when: t, n: n, rest: m[4]}, nil
}

func (ps *Parser) parseWid(text string) (*Wid, error) {
	h, err := ps.parseFixed(text)
	if err != nil {
		return nil, err
	}
	scope, pad, err := suffix.SplitWid(h.rest, ps.params.Z)
	if err != nil {
		return nil, &RejectError{Reason: suffixReason(err), Input: text}
	}
	return &Wid{
		Raw:       text,
		Timestamp: h.when,
		Tick:      h.tick,
		Sequence:  h.n,
		Scope:     scope,
		Padding:   pad,
	}, nil
}

func (ps *Parser) parseHLC(text string) (*HLCWid, error) {
	h, err := ps.parseFixed(text)
	if err != nil {
		return nil, err
	}
	node, pad, err := suffix.SplitHLC(h.rest, ps.params.Z)
	if err != nil {
		return nil, &RejectError{Reason: suffixReason(err), Input: text}
	}
	return &HLCWid{
		Raw:            text,
		Timestamp:      h.when,
		Tick:           h.tick,
		LogicalCounter: h.n,
		Node:           node,
		Padding:        pad,
	}, nil
}

func suffixReason(err error) RejectReason {
	switch {
	case errors.Is(err, suffix.ErrScope):
		return RejectScope
	case errors.Is(err, suffix.ErrPadding):
		return RejectPadding
	case errors.Is(err, suffix.ErrNode):
		return RejectNode
	default:
		return RejectFormat
	}
}

// Parse parses text as kind with params p.
func Parse(text string, p Params, kind Kind) (Record, error) {
	ps, err := NewParser(p, kind)
	if err != nil {
		return nil, err
	}
	return ps.Parse(text)
}

// Validate reports whether text is a valid identifier of kind under p.
// Invalid params also yield false.
func Validate(text string, p Params, kind Kind) bool {
	_, err := Parse(text, p, kind)
	return err == nil
}

// ParseWid parses a plain WID.
func ParseWid(text string, p Params) (*Wid, error) {
	ps, err := NewParser(p, KindWID)
	if err != nil {
		return nil, err
	}
	return ps.parseWid(text)
}

// ParseHLC parses an HLC-WID.
func ParseHLC(text string, p Params) (*HLCWid, error) {
	ps, err := NewParser(p, KindHLC)
	if err != nil {
		return nil, err
	}
	return ps.parseHLC(text)
}
