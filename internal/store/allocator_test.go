package store

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wid/internal/testutil"
	"github.com/roach88/wid/internal/tick"
	"github.com/roach88/wid/internal/wid"
)

func TestNewAllocator_Key(t *testing.T) {
	s := createTestStore(t)

	a, err := NewAllocator(s, wid.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "wid:go:4:6:sec", a.Key())

	a, err = NewAllocator(s, wid.Params{W: 3, Z: 0, Unit: tick.Ms}, WithNamespace("billing"))
	require.NoError(t, err)
	assert.Equal(t, "wid:billing:3:0:ms", a.Key())
}

func TestNewAllocator_Rejects(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name   string
		params wid.Params
		opts   []AllocatorOption
		code   wid.ConfigErrorCode
	}{
		{"zero budget", unpadded(), []AllocatorOption{WithRetryBudget(0)}, wid.ErrCodeInvalidRetryBudget},
		{"huge budget", unpadded(), []AllocatorOption{WithRetryBudget(MaxRetryBudget + 1)}, wid.ErrCodeInvalidRetryBudget},
		{"bad W", wid.Params{W: 0, Z: 0, Unit: tick.Sec}, nil, wid.ErrCodeInvalidW},
		{"bad scope", unpadded(), []AllocatorOption{WithGeneratorOptions(wid.WithScope("a.b"))}, wid.ErrCodeInvalidScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAllocator(s, tt.params, tt.opts...)
			require.Error(t, err)
			var ce *wid.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.code, ce.Code)
		})
	}
}

func TestAllocator_Sequential(t *testing.T) {
	s := createTestStore(t)
	clk := testutil.NewManualClock(baseTick)
	a := pinnedAllocator(t, s, clk)
	ctx := context.Background()

	ids, err := a.NextN(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260212T091530.0000Z",
		"20260212T091530.0001Z",
		"20260212T091530.0002Z",
	}, ids)

	clk.Advance(1)
	id, err := a.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260212T091531.0000Z", id)

	st, _, err := s.Load(ctx, a.Key())
	require.NoError(t, err)
	assert.Equal(t, wid.State{LastTick: baseTick + 1, LastSeq: 0}, st)
}

func TestAllocator_NextNNonPositive(t *testing.T) {
	a := pinnedAllocator(t, createTestStore(t), testutil.NewManualClock(baseTick))

	ids, err := a.NextN(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestAllocator_ClockRegressionUsesRow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "wid:go:4:0:sec", wid.State{LastTick: baseTick + 100, LastSeq: 4}))

	a := pinnedAllocator(t, s, testutil.NewManualClock(baseTick))
	id, err := a.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260212T091710.0005Z", id)
}

func TestAllocator_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wid_state.sqlite")
	clk := testutil.NewManualClock(baseTick)
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	a1 := pinnedAllocator(t, s1, clk)
	_, err = a1.NextN(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path)
	a2 := pinnedAllocator(t, s2, clk)
	id, err := a2.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260212T091530.0002Z", id)
}

func TestAllocator_SequenceRollover(t *testing.T) {
	s := createTestStore(t)
	clk := testutil.NewManualClock(baseTick)
	a, err := NewAllocator(s, wid.Params{W: 1, Z: 0, Unit: tick.Sec}, WithGeneratorOptions(wid.WithClock(clk)))
	require.NoError(t, err)

	ids, err := a.NextN(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "20260212T091530.9Z", ids[9])
	assert.Equal(t, "20260212T091531.0Z", ids[10])
}

// Two stores on one file stand in for two processes. While A holds a
// computed candidate, B allocates; A's swap must fail and A must retry on
// top of B's commit.
func TestAllocator_LostRaceRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wid_state.sqlite")
	clk := testutil.NewManualClock(baseTick)
	ctx := context.Background()

	a := pinnedAllocator(t, openTestStore(t, path), clk)
	b := pinnedAllocator(t, openTestStore(t, path), clk)

	var fromB string
	interfered := false
	a.beforeSwap = func() error {
		if interfered {
			return nil
		}
		interfered = true
		id, err := b.Next(ctx)
		require.NoError(t, err)
		fromB = id
		return nil
	}

	fromA, err := a.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, "20260212T091530.0000Z", fromB)
	assert.Equal(t, "20260212T091530.0001Z", fromA)

	st, _, err := a.store.Load(ctx, a.Key())
	require.NoError(t, err)
	assert.Equal(t, wid.State{LastTick: baseTick, LastSeq: 1}, st)
}

func TestAllocator_ContentionExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wid_state.sqlite")
	clk := testutil.NewManualClock(baseTick)
	ctx := context.Background()

	a := pinnedAllocator(t, openTestStore(t, path), clk, WithRetryBudget(3))
	b := pinnedAllocator(t, openTestStore(t, path), clk)

	rivals := 0
	a.beforeSwap = func() error {
		_, err := b.Next(ctx)
		require.NoError(t, err)
		rivals++
		return nil
	}

	_, err := a.Next(ctx)
	require.Error(t, err)
	assert.True(t, IsContentionError(err))
	assert.Equal(t, 3, rivals)

	var ce *ContentionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Attempts)
	assert.Equal(t, a.Key(), ce.Key)

	// The row only holds B's commits.
	st, _, err := a.store.Load(ctx, a.Key())
	require.NoError(t, err)
	assert.Equal(t, wid.State{LastTick: baseTick, LastSeq: 2}, st)
}

func TestAllocator_CanceledContext(t *testing.T) {
	a := pinnedAllocator(t, createTestStore(t), testutil.NewManualClock(baseTick))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Next(ctx)
	require.Error(t, err)
	assert.False(t, IsContentionError(err))
}

func TestAllocator_TransientErrorRetried(t *testing.T) {
	a := pinnedAllocator(t, createTestStore(t), testutil.NewManualClock(baseTick), WithRetryBudget(3))
	ctx := context.Background()

	calls := 0
	a.beforeSwap = func() error {
		calls++
		if calls < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	}

	id, err := a.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260212T091530.0000Z", id)
	assert.Equal(t, 3, calls, "two busy rounds then a commit")

	st, _, err := a.store.Load(ctx, a.Key())
	require.NoError(t, err)
	assert.Equal(t, wid.State{LastTick: baseTick, LastSeq: 0}, st)
}

func TestAllocator_TransientErrorsExhaustBudget(t *testing.T) {
	a := pinnedAllocator(t, createTestStore(t), testutil.NewManualClock(baseTick), WithRetryBudget(3))
	ctx := context.Background()

	calls := 0
	a.beforeSwap = func() error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrLocked}
	}

	_, err := a.Next(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var ce *ContentionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Attempts)

	// Nothing was committed.
	st, _, err := a.store.Load(ctx, a.Key())
	require.NoError(t, err)
	assert.Equal(t, wid.InitialState(), st)
}

func TestAllocator_StorageErrorNotRetried(t *testing.T) {
	a := pinnedAllocator(t, createTestStore(t), testutil.NewManualClock(baseTick), WithRetryBudget(3))

	boom := sqlite3.Error{Code: sqlite3.ErrIoErr}
	calls := 0
	a.beforeSwap = func() error {
		calls++
		return boom
	}

	_, err := a.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, IsContentionError(err))
	assert.ErrorIs(t, err, boom)
}

func TestAllocator_ConcurrentStoresUnique(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wid_state.sqlite")
	const (
		workers   = 4
		perWorker = 25
	)

	// Open sequentially so schema setup never races.
	allocs := make([]*Allocator, workers)
	for i := range allocs {
		a, err := NewAllocator(openTestStore(t, path), unpadded(), WithRetryBudget(MaxRetryBudget))
		require.NoError(t, err)
		allocs[i] = a
	}

	var (
		mu  sync.Mutex
		all []string
		wg  sync.WaitGroup
	)
	errs := make(chan error, workers)
	for _, a := range allocs {
		wg.Add(1)
		go func(a *Allocator) {
			defer wg.Done()
			ids, err := a.NextN(context.Background(), perWorker)
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			all = append(all, ids...)
			mu.Unlock()
		}(a)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, all, workers*perWorker)
	seen := make(map[string]bool, len(all))
	for _, id := range all {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	// The row holds the greatest id issued.
	sort.Strings(all)
	last, err := wid.ParseWid(all[len(all)-1], unpadded())
	require.NoError(t, err)
	st, _, err := allocs[0].store.Load(context.Background(), allocs[0].Key())
	require.NoError(t, err)
	assert.Equal(t, last.State(), st)
}
