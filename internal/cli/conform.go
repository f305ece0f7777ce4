package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wid/internal/harness"
)

// ConformResult summarizes one suite for JSON output.
type ConformResult struct {
	Suite    string           `json:"suite"`
	Total    int              `json:"total"`
	Passed   int              `json:"passed"`
	Failed   int              `json:"failed"`
	Failures []harness.Result `json:"failures,omitempty"`
}

// NewConformCommand creates the conform command.
func NewConformCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conform [suite.yaml...]",
		Short: "Run conformance vectors",
		Long: `Run YAML conformance vector suites against the parser. With no
arguments the bundled suites run. Exits 1 if any vector fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConform(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runConform(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var suites []*harness.Suite
	if len(paths) == 0 {
		builtin, err := harness.BuiltinSuites()
		if err != nil {
			return formatter.Fail(err)
		}
		suites = builtin
	}
	for _, path := range paths {
		suite, err := harness.LoadSuite(path)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), map[string]string{"path": path})
			return WrapExitError(ExitCommandError, ErrCodeNotFound, err)
		}
		suites = append(suites, suite)
	}

	results := make([]ConformResult, 0, len(suites))
	failed := 0
	for _, s := range suites {
		report := harness.Run(s)
		failed += report.Failed()
		results = append(results, ConformResult{
			Suite:    report.Suite,
			Total:    len(report.Results),
			Passed:   report.Passed(),
			Failed:   report.Failed(),
			Failures: report.Failures(),
		})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Fprintf(formatter.Writer, "%s: %d/%d passed\n", r.Suite, r.Passed, r.Total)
			for _, f := range r.Failures {
				fmt.Fprintf(formatter.Writer, "  FAIL %s: %s\n", f.Name, f.Detail)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d vector(s) failed", ErrCodeFailed, failed))
	}
	return nil
}
