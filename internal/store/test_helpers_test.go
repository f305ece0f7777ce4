package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/wid/internal/testutil"
	"github.com/roach88/wid/internal/tick"
	"github.com/roach88/wid/internal/wid"
)

// baseTick is 2026-02-12T09:15:30Z in seconds.
const baseTick int64 = 1770887730

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
}

// openTestStore opens path and closes it when the test ends.
func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// unpadded are the parameters most allocator tests use: ids compare as
// plain strings.
func unpadded() wid.Params {
	return wid.Params{W: 4, Z: 0, Unit: tick.Sec}
}

// pinnedAllocator returns an allocator on s whose clock is clk.
func pinnedAllocator(t *testing.T, s *Store, clk *testutil.ManualClock, opts ...AllocatorOption) *Allocator {
	t.Helper()
	opts = append([]AllocatorOption{WithGeneratorOptions(wid.WithClock(clk))}, opts...)
	a, err := NewAllocator(s, unpadded(), opts...)
	if err != nil {
		t.Fatalf("NewAllocator() failed: %v", err)
	}
	return a
}
