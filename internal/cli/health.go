package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wid/internal/config"
	"github.com/roach88/wid/internal/wid"
)

// NewHealthcheckCommand creates the healthcheck command.
func NewHealthcheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Generate a sample id and validate it",
		Long: `Generate one identifier in memory with the configured parameters and
validate it with a parser built from the same parameters. Never touches the
counter store. Exits 1 if the sample does not validate.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(rootOpts, cmd)
		},
	}

	addParamFlags(cmd)
	cmd.Flags().String("node", "go", "HLC node tag, or auto")
	cmd.Flags().String("scope", "", "scope appended to plain WIDs")
	return cmd
}

func runHealthcheck(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	src, err := newSource(inMemory(cfg), newLogger(cmd, cfg))
	if err != nil {
		return formatter.Fail(err)
	}
	defer src.Close()

	sample, err := src.Next(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}
	parser, err := newParser(cfg)
	if err != nil {
		return formatter.Fail(err)
	}
	ok := parser.Validate(sample)

	if err := formatter.Record([]Field{
		{"ok", ok},
		{"kind", cfg.Kind},
		{"W", cfg.W},
		{"Z", cfg.Z},
		{"time_unit", cfg.TimeUnit},
		{"sample_id", sample},
	}); err != nil {
		return err
	}

	if !ok {
		return NewExitError(ExitFailure, "sample id failed validation")
	}
	return nil
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:           "bench",
		Short:         "Measure in-memory generation throughput",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(rootOpts, count, cmd)
		},
	}

	addParamFlags(cmd)
	cmd.Flags().String("node", "go", "HLC node tag, or auto")
	cmd.Flags().IntVarP(&count, "count", "n", 100000, "number of ids to generate")
	return cmd
}

func runBench(opts *RootOptions, count int, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if count <= 0 {
		return formatter.Fail(fmt.Errorf("--count must be > 0, got %d", count))
	}

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	src, err := newSource(inMemory(cfg), newLogger(cmd, cfg))
	if err != nil {
		return formatter.Fail(err)
	}
	defer src.Close()

	ctx := cmd.Context()
	start := time.Now()
	for i := 0; i < count; i++ {
		if _, err := src.Next(ctx); err != nil {
			return formatter.Fail(err)
		}
	}
	secs := time.Since(start).Seconds()
	if secs <= 0 {
		secs = 1e-9
	}

	return formatter.Record([]Field{
		{"kind", cfg.Kind},
		{"W", cfg.W},
		{"Z", cfg.Z},
		{"time_unit", cfg.TimeUnit},
		{"n", count},
		{"seconds", secs},
		{"ids_per_sec", float64(count) / secs},
	})
}

// inMemory returns a copy of cfg that never opens the counter store.
func inMemory(cfg *config.Config) *config.Config {
	c := *cfg
	c.StateMode = config.StateModeStateless
	return &c
}

// kindLabel is the human name of a kind.
func kindLabel(k wid.Kind) string {
	if k == wid.KindHLC {
		return "HLC-WID"
	}
	return "WID"
}
