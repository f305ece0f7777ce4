package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wid/internal/harness"
	"github.com/roach88/wid/internal/tick"
	"github.com/roach88/wid/internal/wid"
)

// CheckResult is the outcome of one selftest check.
type CheckResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type check struct {
	name string
	run  func() error
}

// selfCheckTick is 2026-02-12T09:15:30Z.
const selfCheckTick int64 = 1770887730

// pinnedClock never moves.
type pinnedClock int64

func (c pinnedClock) Now(tick.Unit) int64 { return int64(c) }

var selfChecks = []check{
	{"wid_monotonic", checkWidMonotonic},
	{"wid_rollover", checkWidRollover},
	{"hlc_roundtrip", checkHLCRoundTrip},
	{"hlc_observe", checkHLCObserve},
	{"suffix_ambiguity", checkSuffixAmbiguity},
	{"calendar", checkCalendar},
	{"conformance_vectors", checkConformance},
}

// NewSelftestCommand creates the selftest command.
func NewSelftestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run built-in generator and parser checks",
		Long: `Run built-in checks: ordering and rollover of plain WIDs, HLC merge,
suffix disambiguation, calendar validation and the bundled conformance
vectors. Exits 1 if any check fails.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelftest(rootOpts, cmd)
		},
	}
}

func runSelftest(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	results := make([]CheckResult, 0, len(selfChecks))
	failed := 0
	for _, c := range selfChecks {
		res := CheckResult{Name: c.name, OK: true}
		if err := c.run(); err != nil {
			res.OK = false
			res.Error = err.Error()
			failed++
		}
		results = append(results, res)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(map[string]any{"ok": failed == 0, "checks": results}); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.OK {
				fmt.Fprintf(formatter.Writer, "PASS %s\n", r.Name)
			} else {
				fmt.Fprintf(formatter.Writer, "FAIL %s: %s\n", r.Name, r.Error)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d of %d checks failed", ErrCodeFailed, failed, len(results)))
	}
	return nil
}

func checkWidMonotonic() error {
	p := wid.Params{W: 4, Z: 0, Unit: tick.Sec}
	g, err := wid.NewGenerator(p)
	if err != nil {
		return err
	}
	prev := ""
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if !wid.Validate(id, p, wid.KindWID) {
			return fmt.Errorf("generated id %q does not validate", id)
		}
		if id <= prev {
			return fmt.Errorf("%q does not sort after %q", id, prev)
		}
		prev = id
	}
	return nil
}

func checkWidRollover() error {
	p := wid.Params{W: 1, Z: 0, Unit: tick.Sec}
	g, err := wid.NewGenerator(p, wid.WithClock(pinnedClock(selfCheckTick)))
	if err != nil {
		return err
	}
	ids := g.NextN(11)
	if ids[9] != "20260212T091530.9Z" || ids[10] != "20260212T091531.0Z" {
		return fmt.Errorf("rollover produced %q then %q", ids[9], ids[10])
	}
	return nil
}

func checkHLCRoundTrip() error {
	p := wid.Params{W: 4, Z: 6, Unit: tick.Ms}
	g, err := wid.NewHLCGenerator("node01", p)
	if err != nil {
		return err
	}
	id := g.Next()
	rec, err := wid.ParseHLC(id, p)
	if err != nil {
		return err
	}
	if rec.Node != "node01" || rec.Format(p) != id {
		return fmt.Errorf("%q did not round-trip", id)
	}
	return nil
}

func checkHLCObserve() error {
	p := wid.Params{W: 4, Z: 0, Unit: tick.Sec}
	g, err := wid.NewHLCGenerator("node01", p, wid.WithClock(pinnedClock(selfCheckTick)))
	if err != nil {
		return err
	}
	remote := wid.FormatHLC(p, selfCheckTick+5, 3, "peer", "")
	if err := g.ObserveID(remote); err != nil {
		return err
	}
	if got, want := g.State(), (wid.HLCState{PT: selfCheckTick + 5, LC: 4}); got != want {
		return fmt.Errorf("after observe state = %+v, want %+v", got, want)
	}
	if id := g.Next(); id != "20260212T091535.0005Z-node01" {
		return fmt.Errorf("next after observe = %q", id)
	}
	return nil
}

func checkSuffixAmbiguity() error {
	noPad := wid.Params{W: 4, Z: 0, Unit: tick.Sec}
	w, err := wid.ParseWid("20260212T091530.0000Z-node01", noPad)
	if err != nil {
		return err
	}
	if w.Scope != "node01" || w.Padding != "" {
		return fmt.Errorf("Z=0 suffix split into scope %q, padding %q", w.Scope, w.Padding)
	}

	padded := wid.Params{W: 4, Z: 6, Unit: tick.Sec}
	w, err = wid.ParseWid("20260212T091530.0000Z-acme-0a1b2c", padded)
	if err != nil {
		return err
	}
	if w.Scope != "acme" || w.Padding != "0a1b2c" {
		return fmt.Errorf("Z=6 suffix split into scope %q, padding %q", w.Scope, w.Padding)
	}

	if wid.Validate("20260212T091530.0000Z", noPad, wid.KindHLC) {
		return fmt.Errorf("HLC-WID without node validated")
	}
	return nil
}

func checkCalendar() error {
	p := wid.Params{W: 4, Z: 0, Unit: tick.Sec}
	if !wid.Validate("20240229T235959.0000Z", p, wid.KindWID) {
		return fmt.Errorf("leap day rejected")
	}
	if wid.Validate("20230229T000000.0000Z", p, wid.KindWID) {
		return fmt.Errorf("Feb 29 of a common year accepted")
	}
	ms := wid.Params{W: 4, Z: 0, Unit: tick.Ms}
	if !wid.Validate("20260212T091530123.0000Z", ms, wid.KindWID) {
		return fmt.Errorf("millisecond timestamp rejected")
	}
	return nil
}

func checkConformance() error {
	suites, err := harness.BuiltinSuites()
	if err != nil {
		return err
	}
	for _, s := range suites {
		report := harness.Run(s)
		if !report.OK() {
			f := report.Failures()[0]
			return fmt.Errorf("suite %s: %d failing, first %s: %s", s.Name, report.Failed(), f.Name, f.Detail)
		}
	}
	return nil
}
