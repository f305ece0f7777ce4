package harness

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/wid/internal/canon"
	"github.com/roach88/wid/internal/wid"
)

// Outcome values.
const (
	OutcomePass = "pass"
	OutcomeFail = "fail"
)

// Result is the verdict for one vector.
type Result struct {
	Name    string   `json:"name"`
	Kind    wid.Kind `json:"kind"`
	Valid   bool     `json:"valid"`
	Outcome string   `json:"outcome"`

	// Detail lists every mismatch, "; "-separated. Empty on pass.
	Detail string `json:"detail,omitempty"`
}

// Passed reports whether the vector behaved as expected.
func (r Result) Passed() bool {
	return r.Outcome == OutcomePass
}

// Report is the result of running a suite.
type Report struct {
	Suite   string
	Results []Result
}

// Passed counts passing vectors.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed() {
			n++
		}
	}
	return n
}

// Failed counts failing vectors.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK reports whether every vector passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Failures returns only the failing results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Canonical renders the report as canonical JSON for golden comparison.
func (r *Report) Canonical() ([]byte, error) {
	return canon.Marshal(r.toCanonicalMap())
}

func (r *Report) toCanonicalMap() map[string]any {
	results := make([]any, len(r.Results))
	for i, res := range r.Results {
		m := map[string]any{
			"name":    res.Name,
			"kind":    string(res.Kind),
			"valid":   res.Valid,
			"outcome": res.Outcome,
		}
		if res.Detail != "" {
			m["detail"] = res.Detail
		}
		results[i] = m
	}
	return map[string]any{
		"suite":   r.Suite,
		"total":   len(r.Results),
		"passed":  r.Passed(),
		"failed":  r.Failed(),
		"results": results,
	}
}

// Run evaluates every vector in the suite. Vector failures are recorded in
// the report, never returned as errors.
func Run(s *Suite) *Report {
	report := &Report{Suite: s.Name, Results: make([]Result, 0, len(s.Vectors))}
	for _, v := range s.Vectors {
		report.Results = append(report.Results, runVector(s.Defaults, v))
	}
	return report
}

func runVector(defaults Params, v Vector) Result {
	res := Result{Name: v.Name}

	p, kind, err := v.resolve(defaults)
	if err != nil {
		res.Outcome = OutcomeFail
		res.Detail = "config: " + err.Error()
		return res
	}
	res.Kind = kind

	ps, err := wid.NewParser(p, kind)
	if err != nil {
		res.Outcome = OutcomeFail
		res.Detail = "config: " + err.Error()
		return res
	}

	rec, err := ps.Parse(v.ID)
	res.Valid = err == nil

	var problems []string
	switch {
	case res.Valid != v.Valid:
		problems = append(problems, fmt.Sprintf("valid=%t, want %t", res.Valid, v.Valid))
		if err != nil {
			problems = append(problems, err.Error())
		}
	case !res.Valid:
		problems = append(problems, checkReason(err, v.Reason)...)
	default:
		problems = append(problems, checkRecord(rec, p, v)...)
	}

	if len(problems) == 0 {
		res.Outcome = OutcomePass
		return res
	}
	res.Outcome = OutcomeFail
	res.Detail = strings.Join(problems, "; ")
	return res
}

func checkReason(err error, want string) []string {
	if want == "" {
		return nil
	}
	var rej *wid.RejectError
	if !errors.As(err, &rej) {
		return []string{fmt.Sprintf("error %v is not a rejection", err)}
	}
	if string(rej.Reason) != want {
		return []string{fmt.Sprintf("reason=%s, want %s", rej.Reason, want)}
	}
	return nil
}

func checkRecord(rec wid.Record, p wid.Params, v Vector) []string {
	var problems []string
	if got := rec.Format(p); got != v.ID {
		problems = append(problems, fmt.Sprintf("re-rendered as %q", got))
	}

	e := v.Expect
	if e == nil {
		return problems
	}

	str := func(field string, want *string, got string) {
		if want != nil && *want != got {
			problems = append(problems, fmt.Sprintf("%s=%q, want %q", field, got, *want))
		}
	}
	num := func(field string, want *int, got int) {
		if want != nil && *want != got {
			problems = append(problems, fmt.Sprintf("%s=%d, want %d", field, got, *want))
		}
	}

	str("timestamp", e.Timestamp, rec.Time().Format(time.RFC3339Nano))

	switch r := rec.(type) {
	case *wid.Wid:
		num("sequence", e.Sequence, r.Sequence)
		str("scope", e.Scope, r.Scope)
		str("padding", e.Padding, r.Padding)
		if e.LogicalCounter != nil || e.Node != nil {
			problems = append(problems, "logical_counter/node expected on a plain WID")
		}
	case *wid.HLCWid:
		num("logical_counter", e.LogicalCounter, r.LogicalCounter)
		str("node", e.Node, r.Node)
		str("padding", e.Padding, r.Padding)
		if e.Sequence != nil || e.Scope != nil {
			problems = append(problems, "sequence/scope expected on an HLC-WID")
		}
	}
	return problems
}
