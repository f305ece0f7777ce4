package wid

import (
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/wid/internal/suffix"
	"github.com/roach88/wid/internal/tick"
)

// HLCState is the hybrid logical clock: physical tick and logical counter.
type HLCState struct {
	PT int64
	LC int
}

// HLCGenerator emits HLC-WIDs for one node. The logical counter resets to
// 0 whenever the physical tick moves past PT, and grows on any event that
// may have observed a concurrent event at the same tick.
//
// HLCGenerator is not safe for concurrent use.
type HLCGenerator struct {
	params Params
	node   string
	clock  tick.Source
	rand   io.Reader
	maxLC  int
	state  HLCState
}

// NewHLCGenerator validates node and p. The node must match [A-Za-z0-9_]+.
func NewHLCGenerator(node string, p Params, opts ...Option) (*HLCGenerator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !suffix.ValidNode(node) {
		return nil, newConfigError(ErrCodeInvalidNode, "node", "node %q must match [A-Za-z0-9_]+", node)
	}
	o := buildOptions(opts)
	if o.scope != "" {
		return nil, newConfigError(ErrCodeInvalidScope, "scope", "HLC-WIDs carry a node, not a scope")
	}
	return &HLCGenerator{
		params: p,
		node:   node,
		clock:  o.clock,
		rand:   o.rand,
		maxLC:  p.MaxSeq(),
	}, nil
}

// AutoNode returns a random node name that satisfies the node grammar.
func AutoNode() string {
	return "n" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Next ticks the clock for a local event and returns the formatted HLC-WID.
func (g *HLCGenerator) Next() string {
	now := g.clock.Now(g.params.Unit)
	if now > g.state.PT {
		g.state.PT = now
		g.state.LC = 0
	} else {
		g.state.LC++
	}
	g.rollover()
	return FormatHLC(g.params, g.state.PT, g.state.LC, g.node, padding(g.rand, g.params.Z))
}

// NextN returns n successive HLC-WIDs.
func (g *HLCGenerator) NextN(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// Observe merges a remote (pt, lc) into the local clock. The remote LC must
// fit the generator's width. PT never decreases;
// when the merged tick equals the remote PT the local LC ends above the
// remote LC.
func (g *HLCGenerator) Observe(remotePT int64, remoteLC int) error {
	if remotePT < 0 || remoteLC < 0 {
		return newConfigError(ErrCodeInvalidRemoteClock, "remote", "remote clock values must be non-negative, got (%d, %d)", remotePT, remoteLC)
	}
	if remoteLC > g.maxLC {
		return newConfigError(ErrCodeInvalidRemoteClock, "remote", "remote logical counter must be <= %d, got %d", g.maxLC, remoteLC)
	}
	now := g.clock.Now(g.params.Unit)
	pt := max(now, g.state.PT, remotePT)

	switch {
	case pt == g.state.PT && pt == remotePT:
		g.state.LC = max(g.state.LC, remoteLC) + 1
	case pt == g.state.PT:
		g.state.LC++
	case pt == remotePT:
		g.state.LC = remoteLC + 1
	default:
		g.state.LC = 0
	}
	g.state.PT = pt
	g.rollover()
	return nil
}

// ObserveID parses a remote HLC-WID with this generator's params and merges
// its tick and logical counter.
func (g *HLCGenerator) ObserveID(text string) error {
	rec, err := ParseHLC(text, g.params)
	if err != nil {
		return err
	}
	return g.Observe(rec.Tick, rec.LogicalCounter)
}

func (g *HLCGenerator) rollover() {
	if g.state.LC > g.maxLC {
		g.state.PT++
		g.state.LC = 0
	}
}

// State returns the current (pt, lc).
func (g *HLCGenerator) State() HLCState {
	return g.state
}

// RestoreState forces the clock to a previous (pt, lc).
func (g *HLCGenerator) RestoreState(s HLCState) error {
	if s.PT < 0 || s.LC < 0 || s.LC > g.maxLC {
		return newConfigError(ErrCodeInvalidState, "hlc", "hlc state must have pt >= 0 and lc in [0, %d], got (%d, %d)", g.maxLC, s.PT, s.LC)
	}
	g.state = s
	return nil
}

// Node returns the node tag.
func (g *HLCGenerator) Node() string {
	return g.node
}

// Params returns the generator's structural parameters.
func (g *HLCGenerator) Params() Params {
	return g.params
}
