package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNextCommand creates the next command.
func NewNextCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print one identifier",
		Long: `Print one WID or HLC-WID.

State modes (plain WIDs only):
  stateless  in-process counter, forgotten on exit
  state      counter saved to the state file after every id (single writer)
  sql        shared counter row updated by compare-and-swap (many writers)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(rootOpts, cmd)
		},
	}

	addGeneratorFlags(cmd)
	return cmd
}

func runNext(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	src, err := newSource(cfg, newLogger(cmd, cfg))
	if err != nil {
		return formatter.Fail(err)
	}
	defer src.Close()

	id, err := src.Next(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"id": id})
	}
	fmt.Fprintln(formatter.Writer, id)
	return nil
}

// NewStreamCommand creates the stream command.
func NewStreamCommand(rootOpts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Print identifiers, one per line",
		Long: `Print --count identifiers, one per line. With --count 0 the stream runs
until interrupted (text format only).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(rootOpts, count, cmd)
		},
	}

	addGeneratorFlags(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of ids (0 = until interrupted)")
	return cmd
}

func runStream(opts *RootOptions, count int, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if count < 0 {
		return formatter.Fail(fmt.Errorf("--count must be >= 0, got %d", count))
	}
	if count == 0 && formatter.Format == "json" {
		return formatter.Fail(fmt.Errorf("--format json needs a positive --count"))
	}

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	src, err := newSource(cfg, newLogger(cmd, cfg))
	if err != nil {
		return formatter.Fail(err)
	}
	defer src.Close()

	ctx := cmd.Context()
	var ids []string
	for i := 0; count == 0 || i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		id, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return formatter.Fail(err)
		}
		if formatter.Format == "json" {
			ids = append(ids, id)
			continue
		}
		fmt.Fprintln(formatter.Writer, id)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"ids": ids})
	}
	return nil
}
