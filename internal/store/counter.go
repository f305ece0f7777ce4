package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/wid/internal/wid"
)

// Ensure creates the counter row for key at the initial state (0, -1) if
// it does not exist. Concurrent callers may race; losers are no-ops.
func (s *Store) Ensure(ctx context.Context, key string) error {
	init := wid.InitialState()
	_, err := s.exec(ctx, `
		INSERT INTO wid_state (k, last_tick, last_seq)
		VALUES (?, ?, ?)
		ON CONFLICT(k) DO NOTHING
	`, key, init.LastTick, init.LastSeq)
	if err != nil {
		return fmt.Errorf("ensure counter %q: %w", key, err)
	}
	return nil
}

// Load reads the counter row for key. found is false when the row does not
// exist.
func (s *Store) Load(ctx context.Context, key string) (st wid.State, found bool, err error) {
	err = s.queryRow(ctx, `
		SELECT last_tick, last_seq FROM wid_state WHERE k = ?
	`, key).Scan(&st.LastTick, &st.LastSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return wid.State{}, false, nil
	}
	if err != nil {
		return wid.State{}, false, fmt.Errorf("load counter %q: %w", key, err)
	}
	return st, true, nil
}

// Save overwrites the counter row for key. It is a plain upsert and gives
// no protection against concurrent writers; the Allocator uses
// CompareAndSwap instead.
func (s *Store) Save(ctx context.Context, key string, st wid.State) error {
	_, err := s.exec(ctx, `
		INSERT INTO wid_state (k, last_tick, last_seq)
		VALUES (?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET
			last_tick = excluded.last_tick,
			last_seq = excluded.last_seq
	`, key, st.LastTick, st.LastSeq)
	if err != nil {
		return fmt.Errorf("save counter %q: %w", key, err)
	}
	return nil
}

// CompareAndSwap replaces the row for key with next only if it still holds
// prev. swapped is false when another writer changed the row first.
func (s *Store) CompareAndSwap(ctx context.Context, key string, prev, next wid.State) (swapped bool, err error) {
	res, err := s.exec(ctx, `
		UPDATE wid_state SET last_tick = ?, last_seq = ?
		WHERE k = ? AND last_tick = ? AND last_seq = ?
	`, next.LastTick, next.LastSeq, key, prev.LastTick, prev.LastSeq)
	if err != nil {
		return false, fmt.Errorf("swap counter %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("swap counter %q: %w", key, err)
	}
	return n == 1, nil
}
