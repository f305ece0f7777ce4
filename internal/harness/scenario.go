package harness

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wid/internal/tick"
	"github.com/roach88/wid/internal/wid"
)

//go:embed testdata/vectors/*.yaml
var builtinVectors embed.FS

// Suite is a named set of conformance vectors.
type Suite struct {
	// Name identifies the suite and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this suite covers.
	Description string `yaml:"description"`

	// Defaults apply to every vector that does not override them.
	Defaults Params `yaml:"defaults,omitempty"`

	// Vectors are evaluated in order.
	Vectors []Vector `yaml:"vectors"`
}

// Params are the optional parser settings of a suite or vector.
type Params struct {
	Kind     string `yaml:"kind,omitempty"`
	W        *int   `yaml:"W,omitempty"`
	Z        *int   `yaml:"Z,omitempty"`
	TimeUnit string `yaml:"time_unit,omitempty"`
}

// Vector is one identifier and the verdict expected for it.
type Vector struct {
	Name   string `yaml:"name"`
	Params `yaml:",inline"`
	ID     string `yaml:"id"`

	// Valid is the expected verdict.
	Valid bool `yaml:"valid"`

	// Reason is the expected reject reason (format, timestamp, scope,
	// padding, node). Only checked for invalid vectors.
	Reason string `yaml:"reason,omitempty"`

	// Expect holds expected parsed fields. Only checked for valid vectors.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is a subset of parsed fields. Nil fields are not compared.
type Expect struct {
	// Timestamp is RFC 3339 in UTC, with milliseconds for ms ticks.
	Timestamp      *string `yaml:"timestamp,omitempty"`
	Sequence       *int    `yaml:"sequence,omitempty"`
	LogicalCounter *int    `yaml:"logical_counter,omitempty"`
	Scope          *string `yaml:"scope,omitempty"`
	Node           *string `yaml:"node,omitempty"`
	Padding        *string `yaml:"padding,omitempty"`
}

// resolve layers v over the suite defaults over the package defaults.
func (v Vector) resolve(defaults Params) (wid.Params, wid.Kind, error) {
	p := wid.DefaultParams()
	kindName := string(wid.KindWID)

	for _, layer := range []Params{defaults, v.Params} {
		if layer.Kind != "" {
			kindName = layer.Kind
		}
		if layer.W != nil {
			p.W = *layer.W
		}
		if layer.Z != nil {
			p.Z = *layer.Z
		}
		if layer.TimeUnit != "" {
			u, err := tick.ParseUnit(layer.TimeUnit)
			if err != nil {
				return wid.Params{}, "", fmt.Errorf("time_unit %q: %w", layer.TimeUnit, err)
			}
			p.Unit = u
		}
	}

	kind, err := wid.ParseKind(kindName)
	if err != nil {
		return wid.Params{}, "", err
	}
	return p, kind, nil
}

// LoadSuite reads and parses a suite YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite parses suite YAML with strict field validation.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}

	return &suite, nil
}

// BuiltinSuites returns the suites shipped with the binary, sorted by file
// name.
func BuiltinSuites() ([]*Suite, error) {
	names, err := fs.Glob(builtinVectors, "testdata/vectors/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	suites := make([]*Suite, 0, len(names))
	for _, name := range names {
		data, err := builtinVectors.ReadFile(name)
		if err != nil {
			return nil, err
		}
		suite, err := ParseSuite(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Vectors) == 0 {
		return fmt.Errorf("vectors list is required and must be non-empty")
	}

	if _, _, err := (Vector{}).resolve(s.Defaults); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	seen := make(map[string]bool, len(s.Vectors))
	for i, v := range s.Vectors {
		if v.Name == "" {
			return fmt.Errorf("vectors[%d]: name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("vectors[%d]: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = true

		if v.Valid && v.Reason != "" {
			return fmt.Errorf("vector %q: reason given for a valid vector", v.Name)
		}
		if !v.Valid && v.Expect != nil {
			return fmt.Errorf("vector %q: expect given for an invalid vector", v.Name)
		}
	}

	return nil
}
