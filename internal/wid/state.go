package wid

// State is the (lastTick, lastSeq) pair owned by a Generator or persisted
// in a counter row. LastSeq == -1 means nothing has been issued yet.
type State struct {
	LastTick int64
	LastSeq  int
}

// InitialState is the sentinel every new generator and counter row starts from.
func InitialState() State {
	return State{LastTick: 0, LastSeq: -1}
}

// Advance is the WID transition: never regress the tick, bump the sequence
// within a tick, and when the sequence space is exhausted move to tick+1.
// The returned state is the (tick, seq) to emit and commit.
func Advance(s State, now int64, maxSeq int) State {
	t := now
	if t < s.LastTick {
		t = s.LastTick
	}
	seq := 0
	if t == s.LastTick {
		seq = s.LastSeq + 1
	}
	if seq > maxSeq {
		t++
		seq = 0
	}
	return State{LastTick: t, LastSeq: seq}
}

func (s State) validate(maxSeq int) error {
	if s.LastTick < 0 {
		return newConfigError(ErrCodeInvalidState, "last_tick", "last tick must be >= 0, got %d", s.LastTick)
	}
	if s.LastSeq < -1 || s.LastSeq > maxSeq {
		return newConfigError(ErrCodeInvalidState, "last_seq", "last seq must be in [-1, %d], got %d", maxSeq, s.LastSeq)
	}
	return nil
}

// Before reports whether s orders strictly before other.
func (s State) Before(other State) bool {
	if s.LastTick != other.LastTick {
		return s.LastTick < other.LastTick
	}
	return s.LastSeq < other.LastSeq
}
