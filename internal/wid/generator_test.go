package wid

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wid/internal/testutil"
	"github.com/roach88/wid/internal/tick"
)

// 2026-02-12T09:15:30Z
const baseTick int64 = 1770887730

func TestAdvance(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		now    int64
		maxSeq int
		want   State
	}{
		{"fresh", InitialState(), 100, 9, State{100, 0}},
		{"same tick", State{100, 3}, 100, 9, State{100, 4}},
		{"new tick resets", State{100, 3}, 101, 9, State{101, 0}},
		{"clock regressed", State{100, 3}, 90, 9, State{100, 4}},
		{"rollover", State{100, 9}, 100, 9, State{101, 0}},
		{"rollover with regressed clock", State{100, 9}, 50, 9, State{101, 0}},
		{"fresh at tick zero", InitialState(), 0, 9, State{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advance(tt.state, tt.now, tt.maxSeq))
		})
	}
}

func TestGenerator_Format(t *testing.T) {
	clock := testutil.NewManualClock(baseTick)
	g, err := NewGenerator(DefaultParams(), WithClock(clock), WithRandom(testutil.FixedRandom(0xab)))
	require.NoError(t, err)

	assert.Equal(t, "20260212T091530.0000Z-ababab", g.Next())
	assert.Equal(t, "20260212T091530.0001Z-ababab", g.Next())
}

func TestGenerator_RandomSourceFailure(t *testing.T) {
	g, err := NewGenerator(DefaultParams(), WithRandom(iotest.ErrReader(errors.New("drained"))))
	require.NoError(t, err)
	assert.PanicsWithValue(t, "wid: read padding: drained", func() { g.Next() })

	unpadded, err := NewGenerator(Params{W: 4, Z: 0, Unit: tick.Sec}, WithRandom(iotest.ErrReader(errors.New("drained"))))
	require.NoError(t, err)
	assert.NotPanics(t, func() { unpadded.Next() }, "Z=0 never reads")
}

func TestGenerator_FormatScopeAndMs(t *testing.T) {
	clock := testutil.NewManualClock(baseTick*1000 + 42)
	p := Params{W: 3, Z: 0, Unit: tick.Ms}
	g, err := NewGenerator(p, WithClock(clock), WithScope("acme-eu"))
	require.NoError(t, err)

	assert.Equal(t, "20260212T091530042.000Z-acme-eu", g.Next())
}

func TestGenerator_Monotonic(t *testing.T) {
	clock := testutil.NewManualClock(baseTick)
	g, err := NewGenerator(Params{W: 2, Z: 0, Unit: tick.Sec}, WithClock(clock))
	require.NoError(t, err)

	prev := g.Next()
	for i := 0; i < 500; i++ {
		// Mix stalled, advancing and regressing clocks.
		switch i % 7 {
		case 0:
			clock.Advance(1)
		case 3:
			clock.Advance(-2)
		}
		next := g.Next()
		require.Less(t, prev, next, "iteration %d", i)
		prev = next
	}
}

func TestGenerator_MonotonicSystemClock(t *testing.T) {
	g, err := NewGenerator(Params{W: 4, Z: 0, Unit: tick.Ms})
	require.NoError(t, err)

	ids := g.NextN(2000)
	for i := 1; i < len(ids); i++ {
		require.Less(t, ids[i-1], ids[i])
	}
}

func TestGenerator_Rollover(t *testing.T) {
	clock := testutil.NewManualClock(baseTick)
	g, err := NewGenerator(Params{W: 1, Z: 0, Unit: tick.Sec}, WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, g.RestoreState(State{LastTick: baseTick, LastSeq: 9}))

	id := g.Next()
	assert.Equal(t, State{LastTick: baseTick + 1, LastSeq: 0}, g.State())
	assert.Equal(t, "20260212T091531.0Z", id)
}

func TestGenerator_PaddedKeepsStateOrder(t *testing.T) {
	clock := testutil.NewManualClock(baseTick)
	g, err := NewGenerator(DefaultParams(), WithClock(clock))
	require.NoError(t, err)

	var prev State
	for i := 0; i < 100; i++ {
		id := g.Next()
		rec, err := ParseWid(id, DefaultParams())
		require.NoError(t, err)
		require.Len(t, rec.Padding, DefaultZ)
		if i > 0 {
			require.True(t, prev.Before(rec.State()))
		}
		prev = rec.State()
	}
}

func TestGenerator_RestoreStateRejects(t *testing.T) {
	g, err := NewGenerator(Params{W: 2, Z: 0, Unit: tick.Sec})
	require.NoError(t, err)

	for _, s := range []State{{-1, 0}, {0, -2}, {0, 100}} {
		err := g.RestoreState(s)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce, "state %+v", s)
		assert.Equal(t, ErrCodeInvalidState, ce.Code)
	}
	assert.Equal(t, InitialState(), g.State())
}

func TestNewGenerator_Rejects(t *testing.T) {
	_, err := NewGenerator(Params{W: 0, Z: 0, Unit: tick.Sec})
	assert.True(t, IsConfigError(err))

	_, err = NewGenerator(DefaultParams(), WithScope("bad scope"))
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeInvalidScope, ce.Code)
}

func TestGenerator_NextN(t *testing.T) {
	g, err := NewGenerator(DefaultParams())
	require.NoError(t, err)

	assert.Len(t, g.NextN(5), 5)
	assert.Nil(t, g.NextN(0))
}
