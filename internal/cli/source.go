package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/wid/internal/config"
	"github.com/roach88/wid/internal/logging"
	"github.com/roach88/wid/internal/store"
	"github.com/roach88/wid/internal/wid"
)

// addParamFlags registers the flags every command that reads or writes
// identifiers accepts.
func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("kind", string(wid.KindWID), "identifier family (wid|hlc)")
	f.Int("W", wid.DefaultW, "sequence / logical counter width in digits")
	f.Int("Z", wid.DefaultZ, "padding length in lowercase hex (0 disables)")
	f.String("time-unit", "sec", "tick resolution (sec|ms)")
}

// addGeneratorFlags adds the flags of commands that issue identifiers.
func addGeneratorFlags(cmd *cobra.Command) {
	addParamFlags(cmd)
	f := cmd.Flags()
	f.String("node", "go", "HLC node tag, or auto for a random one")
	f.String("scope", "", "scope appended to plain WIDs")
	addStateFlags(cmd)
}

// addStateFlags adds the flags that locate the shared counter.
func addStateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("namespace", store.DefaultNamespace, "counter namespace in state and sql modes")
	f.String("state", config.StateModeStateless, "state mode (stateless|state|sql)")
	f.String("driver", config.DriverSQLite, "counter backend (sqlite|postgres)")
	f.String("data-dir", ".local/services", "directory holding "+config.StateFile)
	f.String("db", "", "sqlite file or postgres DSN; overrides --data-dir")
	f.Int("retry-budget", store.DefaultRetryBudget, "compare-and-swap attempts per id in sql mode")
}

// loadConfig resolves configuration for cmd: defaults, config file, WID_*
// environment, then the flags the user set.
func loadConfig(rootOpts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{File: rootOpts.ConfigFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}
	if rootOpts.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log).With().Str("component", "wid").Logger()
}

// openStore opens the counter backend named by cfg, creating the SQLite
// data directory if needed.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Driver == config.DriverPostgres {
		st, err := store.OpenPostgres(cfg.DB)
		if err != nil {
			return nil, &storageError{err: err}
		}
		return st, nil
	}

	path := cfg.StatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &storageError{err: fmt.Errorf("create data dir: %w", err)}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &storageError{err: err}
	}
	return st, nil
}

// source issues identifiers for next and stream.
type source interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// memorySource wraps an in-process generator.
type memorySource struct {
	next func() string
}

func (s memorySource) Next(context.Context) (string, error) { return s.next(), nil }
func (memorySource) Close() error                          { return nil }

// stateSource persists a single writer's counter between runs. Load and
// Save are not atomic together; concurrent writers must use sql mode.
type stateSource struct {
	st  *store.Store
	key string
	gen *wid.Generator
}

func (s *stateSource) Next(ctx context.Context) (string, error) {
	cur, found, err := s.st.Load(ctx, s.key)
	if err != nil {
		return "", &storageError{err: err}
	}
	if found {
		if err := s.gen.RestoreState(cur); err != nil {
			return "", err
		}
	}
	id := s.gen.Next()
	if err := s.st.Save(ctx, s.key, s.gen.State()); err != nil {
		return "", &storageError{err: err}
	}
	return id, nil
}

func (s *stateSource) Close() error { return s.st.Close() }

// allocSource draws from a shared counter row with compare-and-swap.
type allocSource struct {
	st    *store.Store
	alloc *store.Allocator
}

func (s *allocSource) Next(ctx context.Context) (string, error) {
	id, err := s.alloc.Next(ctx)
	if err != nil && !store.IsContentionError(err) && !wid.IsConfigError(err) {
		return "", &storageError{err: err}
	}
	return id, err
}

func (s *allocSource) Close() error { return s.st.Close() }

// newSource builds the identifier source for cfg's kind and state mode.
func newSource(cfg *config.Config, logger zerolog.Logger) (source, error) {
	p := cfg.Params()

	if cfg.KindValue() == wid.KindHLC {
		node := cfg.Node
		if node == "auto" {
			node = wid.AutoNode()
		}
		g, err := wid.NewHLCGenerator(node, p)
		if err != nil {
			return nil, err
		}
		return memorySource{next: g.Next}, nil
	}

	var opts []wid.Option
	if cfg.Scope != "" {
		opts = append(opts, wid.WithScope(cfg.Scope))
	}

	switch cfg.StateMode {
	case config.StateModeState:
		g, err := wid.NewGenerator(p, opts...)
		if err != nil {
			return nil, err
		}
		st, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		return &stateSource{st: st, key: p.Key(cfg.Namespace), gen: g}, nil

	case config.StateModeSQL:
		st, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		a, err := store.NewAllocator(st, p,
			store.WithNamespace(cfg.Namespace),
			store.WithRetryBudget(cfg.RetryBudget),
			store.WithLogger(logger),
			store.WithGeneratorOptions(opts...),
		)
		if err != nil {
			st.Close()
			return nil, err
		}
		logger.Debug().Str("key", a.Key()).Str("driver", cfg.Driver).Msg("sql allocation enabled")
		return &allocSource{st: st, alloc: a}, nil

	default:
		g, err := wid.NewGenerator(p, opts...)
		if err != nil {
			return nil, err
		}
		return memorySource{next: g.Next}, nil
	}
}
