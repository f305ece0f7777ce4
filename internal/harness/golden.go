package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs the suite and compares its canonical report against
// testdata/golden/{suite.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the report so callers can make further assertions.
func RunWithGolden(t *testing.T, suite *Suite) (*Report, error) {
	t.Helper()

	report := Run(suite)
	if err := AssertGolden(t, suite.Name, report); err != nil {
		return nil, err
	}
	return report, nil
}

// AssertGolden compares an already computed report against a golden file.
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := report.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
