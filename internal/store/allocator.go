package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roach88/wid/internal/wid"
)

// DefaultRetryBudget is the number of compare-and-swap attempts per id.
const DefaultRetryBudget = 64

// MaxRetryBudget bounds configurable budgets.
const MaxRetryBudget = 1024

// DefaultNamespace is used when no namespace option is given.
const DefaultNamespace = "go"

// Allocator issues plain WIDs from a shared counter row. Any number of
// Allocators, in any number of processes, may share a row: no two of them
// ever commit the same (tick, seq).
//
// Allocator holds no lock and is safe for concurrent use.
type Allocator struct {
	store     *Store
	params    wid.Params
	namespace string
	key       string
	budget    int
	logger    zerolog.Logger
	genOpts   []wid.Option

	// beforeSwap runs between computing a candidate and the CAS. Tests use
	// it to let a competing allocator win the row or to fail the attempt as
	// the storage layer would.
	beforeSwap func() error
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithNamespace sets the namespace part of the counter key.
func WithNamespace(ns string) AllocatorOption {
	return func(a *Allocator) { a.namespace = ns }
}

// WithRetryBudget sets the number of CAS attempts per id.
func WithRetryBudget(n int) AllocatorOption {
	return func(a *Allocator) { a.budget = n }
}

// WithLogger sets the logger for retry diagnostics. Defaults to zerolog.Nop().
func WithLogger(l zerolog.Logger) AllocatorOption {
	return func(a *Allocator) { a.logger = l }
}

// WithGeneratorOptions passes scope, clock and padding options through to
// the generator that computes each candidate.
func WithGeneratorOptions(opts ...wid.Option) AllocatorOption {
	return func(a *Allocator) { a.genOpts = append(a.genOpts, opts...) }
}

// NewAllocator validates the parameters and options up front so that Next
// only fails on storage errors or contention.
func NewAllocator(st *Store, p wid.Params, opts ...AllocatorOption) (*Allocator, error) {
	a := &Allocator{
		store:     st,
		params:    p,
		namespace: DefaultNamespace,
		budget:    DefaultRetryBudget,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.budget < 1 || a.budget > MaxRetryBudget {
		return nil, &wid.ConfigError{
			Code:    wid.ErrCodeInvalidRetryBudget,
			Field:   "retry_budget",
			Message: fmt.Sprintf("retry budget must be in [1, %d], got %d", MaxRetryBudget, a.budget),
		}
	}
	if _, err := wid.NewGenerator(p, a.genOpts...); err != nil {
		return nil, err
	}
	a.key = p.Key(a.namespace)
	return a, nil
}

// Key returns the counter row key, wid:<namespace>:<W>:<Z>:<unit>.
func (a *Allocator) Key() string {
	return a.key
}

// Params returns the structural parameters.
func (a *Allocator) Params() wid.Params {
	return a.params
}

// Next allocates one WID. It returns *ContentionError when the budget is
// spent and the underlying error for anything that is not transient.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	ensured := false
	for attempt := 1; attempt <= a.budget; attempt++ {
		if !ensured {
			if err := a.store.Ensure(ctx, a.key); err != nil {
				if IsTransient(err) {
					a.logRetry(attempt, "transient error creating counter", err)
					continue
				}
				return "", err
			}
			ensured = true
		}

		id, won, err := a.attempt(ctx)
		if err != nil {
			if IsTransient(err) {
				a.logRetry(attempt, "transient error", err)
				continue
			}
			return "", err
		}
		if won {
			return id, nil
		}
		a.logRetry(attempt, "lost compare-and-swap", nil)
	}

	a.logger.Warn().
		Str("key", a.key).
		Int("attempts", a.budget).
		Msg("retry budget exhausted")
	return "", &ContentionError{Key: a.key, Attempts: a.budget}
}

// NextN allocates n WIDs in order. On error the ids already committed are
// returned with it.
func (a *Allocator) NextN(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := a.Next(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (a *Allocator) attempt(ctx context.Context) (string, bool, error) {
	cur, found, err := a.store.Load(ctx, a.key)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, fmt.Errorf("%w: %s", ErrCounterMissing, a.key)
	}

	gen, err := wid.NewGenerator(a.params, a.genOpts...)
	if err != nil {
		return "", false, err
	}
	if err := gen.RestoreState(cur); err != nil {
		return "", false, fmt.Errorf("counter %q: %w", a.key, err)
	}
	id := gen.Next()

	if a.beforeSwap != nil {
		if err := a.beforeSwap(); err != nil {
			return "", false, err
		}
	}

	won, err := a.store.CompareAndSwap(ctx, a.key, cur, gen.State())
	if err != nil {
		return "", false, err
	}
	return id, won, nil
}

func (a *Allocator) logRetry(attempt int, msg string, err error) {
	ev := a.logger.Debug().
		Str("key", a.key).
		Int("attempt", attempt).
		Int("budget", a.budget)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}
