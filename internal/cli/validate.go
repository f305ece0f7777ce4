package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wid/internal/config"
	"github.com/roach88/wid/internal/wid"
)

// ValidationResult holds the verdict for one identifier.
type ValidationResult struct {
	ID     string `json:"id"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <id>",
		Short: "Check an identifier against W, Z and the time unit",
		Long: `Check that an identifier is well formed for the given kind and
parameters. Prints true or false; exits 1 when the id is invalid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	addParamFlags(cmd)
	return cmd
}

func runValidate(opts *RootOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	parser, err := parserFor(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	result := ValidationResult{ID: id, Valid: true}
	if _, err := parser.Parse(id); err != nil {
		var rej *wid.RejectError
		if !errors.As(err, &rej) {
			return formatter.Fail(err)
		}
		result.Valid = false
		result.Reason = string(rej.Reason)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, result.Valid)
	}

	if !result.Valid {
		// Invalid ids = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("invalid %s: %s", kindLabel(parser.Kind()), result.Reason))
	}
	return nil
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <id>",
		Short: "Print the fields of an identifier",
		Long: `Parse an identifier and print its fields: raw text, RFC 3339 timestamp,
sequence or logical counter, scope or node, and padding.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}

	addParamFlags(cmd)
	return cmd
}

func runParse(opts *RootOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	parser, err := parserFor(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	rec, err := parser.Parse(id)
	if err != nil {
		var rej *wid.RejectError
		if errors.As(err, &rej) {
			_ = formatter.Error(ErrCodeInvalidID, err.Error(), map[string]string{"reason": string(rej.Reason)})
			return WrapExitError(ExitFailure, ErrCodeInvalidID, err)
		}
		return formatter.Fail(err)
	}

	return formatter.Record(recordFields(rec))
}

func recordFields(rec wid.Record) []Field {
	ts := rec.Time().Format(time.RFC3339Nano)
	switch r := rec.(type) {
	case *wid.HLCWid:
		return []Field{
			{"raw", r.Raw},
			{"timestamp", ts},
			{"logical_counter", r.LogicalCounter},
			{"node", r.Node},
			{"padding", r.Padding},
		}
	case *wid.Wid:
		return []Field{
			{"raw", r.Raw},
			{"timestamp", ts},
			{"sequence", r.Sequence},
			{"scope", r.Scope},
			{"padding", r.Padding},
		}
	}
	return nil
}

func parserFor(opts *RootOptions, cmd *cobra.Command) (*wid.Parser, error) {
	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return nil, err
	}
	return newParser(cfg)
}

func newParser(cfg *config.Config) (*wid.Parser, error) {
	return wid.NewParser(cfg.Params(), cfg.KindValue())
}
