package wid

import (
	"io"

	"github.com/roach88/wid/internal/suffix"
	"github.com/roach88/wid/internal/tick"
)

// Generator emits plain WIDs with strictly increasing (tick, seq).
//
// With Z == 0 successive ids are also strictly increasing as strings. With
// Z > 0 the random pad can break string order, never (tick, seq) order.
//
// Generator is not safe for concurrent use.
type Generator struct {
	params Params
	scope  string
	clock  tick.Source
	rand   io.Reader
	maxSeq int
	state  State
}

// NewGenerator validates p and the scope option and returns a generator in
// the initial state.
func NewGenerator(p Params, opts ...Option) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	if o.scope != "" && !suffix.ValidScope(o.scope) {
		return nil, newConfigError(ErrCodeInvalidScope, "scope", "scope %q must match [A-Za-z0-9_]+(-[A-Za-z0-9_]+)*", o.scope)
	}
	return &Generator{
		params: p,
		scope:  o.scope,
		clock:  o.clock,
		rand:   o.rand,
		maxSeq: p.MaxSeq(),
		state:  InitialState(),
	}, nil
}

// Next commits the next (tick, seq) and returns the formatted WID.
func (g *Generator) Next() string {
	g.state = Advance(g.state, g.clock.Now(g.params.Unit), g.maxSeq)
	return FormatWid(g.params, g.state.LastTick, g.state.LastSeq, g.scope, padding(g.rand, g.params.Z))
}

// NextN returns n successive WIDs.
func (g *Generator) NextN(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// State returns the last committed (tick, seq).
func (g *Generator) State() State {
	return g.state
}

// RestoreState rehydrates the generator, e.g. from a persisted counter row.
func (g *Generator) RestoreState(s State) error {
	if err := s.validate(g.maxSeq); err != nil {
		return err
	}
	g.state = s
	return nil
}

// Params returns the generator's structural parameters.
func (g *Generator) Params() Params {
	return g.params
}

// Scope returns the configured scope, or "".
func (g *Generator) Scope() string {
	return g.scope
}
