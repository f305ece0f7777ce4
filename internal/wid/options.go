package wid

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/roach88/wid/internal/suffix"
	"github.com/roach88/wid/internal/tick"
)

// Option configures a Generator or HLCGenerator.
type Option func(*options)

type options struct {
	scope string
	clock tick.Source
	rand  io.Reader
}

// WithScope appends -<scope> to every plain WID. Not valid for HLC-WIDs.
func WithScope(scope string) Option {
	return func(o *options) { o.scope = scope }
}

// WithClock replaces the system clock.
func WithClock(src tick.Source) Option {
	return func(o *options) { o.clock = src }
}

// WithRandom replaces crypto/rand as the padding source. Next panics if r
// fails, the same as a crypto/rand failure.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

func buildOptions(opts []Option) options {
	o := options{clock: tick.System{}, rand: rand.Reader}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func padding(r io.Reader, z int) string {
	if z <= 0 {
		return ""
	}
	s, err := suffix.HexFrom(r, z)
	if err != nil {
		panic(fmt.Sprintf("wid: read padding: %v", err))
	}
	return s
}
