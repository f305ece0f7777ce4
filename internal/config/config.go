// Package config resolves wid settings from defaults, an optional YAML
// file, WID_* environment variables and command-line flags, in increasing
// order of precedence, and checks the result against a CUE schema.
package config

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/wid/internal/logging"
	"github.com/roach88/wid/internal/tick"
	"github.com/roach88/wid/internal/wid"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix prefixes every environment variable: WID_W, WID_TIME_UNIT, ...
const EnvPrefix = "WID"

// StateFile is the SQLite file name under DataDir.
const StateFile = "wid_state.sqlite"

// State modes.
const (
	StateModeStateless = "stateless"
	StateModeState     = "state"
	StateModeSQL       = "sql"
)

// Drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the resolved configuration.
type Config struct {
	Kind        string         `mapstructure:"kind" json:"kind"`
	W           int            `mapstructure:"w" json:"w"`
	Z           int            `mapstructure:"z" json:"z"`
	TimeUnit    string         `mapstructure:"time_unit" json:"time_unit"`
	Node        string         `mapstructure:"node" json:"node"`
	Scope       string         `mapstructure:"scope" json:"scope"`
	Namespace   string         `mapstructure:"namespace" json:"namespace"`
	StateMode   string         `mapstructure:"state_mode" json:"state_mode"`
	Driver      string         `mapstructure:"driver" json:"driver"`
	DataDir     string         `mapstructure:"data_dir" json:"data_dir"`
	DB          string         `mapstructure:"db" json:"db"`
	RetryBudget int            `mapstructure:"retry_budget" json:"retry_budget"`
	Log         logging.Config `mapstructure:"log" json:"log"`
}

// LoadOptions selects the config file and the flags that override it.
type LoadOptions struct {
	// File is a YAML config file. Empty means look for wid.yaml in the
	// working directory and carry on without one.
	File string

	// Flags are bound by name (see FlagKeys); only flags the user set
	// take effect.
	Flags *pflag.FlagSet
}

// FlagKeys maps CLI flag names to config keys.
var FlagKeys = map[string]string{
	"kind":         "kind",
	"W":            "w",
	"Z":            "z",
	"time-unit":    "time_unit",
	"node":         "node",
	"scope":        "scope",
	"namespace":    "namespace",
	"state":        "state_mode",
	"driver":       "driver",
	"data-dir":     "data_dir",
	"db":           "db",
	"retry-budget": "retry_budget",
	"log-level":    "log.level",
	"log-pretty":   "log.pretty",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kind", string(wid.KindWID))
	v.SetDefault("w", wid.DefaultW)
	v.SetDefault("z", wid.DefaultZ)
	v.SetDefault("time_unit", string(tick.Sec))
	v.SetDefault("node", "go")
	v.SetDefault("scope", "")
	v.SetDefault("namespace", "go")
	v.SetDefault("state_mode", StateModeStateless)
	v.SetDefault("driver", DriverSQLite)
	v.SetDefault("data_dir", ".local/services")
	v.SetDefault("db", "")
	v.SetDefault("retry_budget", 64)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", false)
}

// Load merges all sources, normalizes aliases (hlc-wid, MS, ...) and
// validates the result. Invalid values are *wid.ConfigError.
//
// File "-" skips config files entirely.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch opts.File {
	case "-":
	case "":
		v.SetConfigName("wid")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	default:
		v.SetConfigFile(opts.File)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &wid.ConfigError{Code: wid.ErrCodeInvalidConfig, Message: err.Error()}
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	kind, err := wid.ParseKind(c.Kind)
	if err != nil {
		return err
	}
	c.Kind = string(kind)

	unit, err := tick.ParseUnit(c.TimeUnit)
	if err != nil {
		return &wid.ConfigError{Code: wid.ErrCodeInvalidTimeUnit, Field: "time_unit", Message: err.Error()}
	}
	c.TimeUnit = string(unit)

	c.StateMode = strings.ToLower(strings.TrimSpace(c.StateMode))
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	return nil
}

// Validate checks c against the #Config schema.
func (c *Config) Validate() error {
	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	val := cctx.Encode(c)
	if err := val.Err(); err != nil {
		return &wid.ConfigError{Code: wid.ErrCodeInvalidConfig, Message: err.Error()}
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return toConfigError(err)
	}
	return nil
}

var fieldCodes = map[string]wid.ConfigErrorCode{
	"kind":         wid.ErrCodeInvalidKind,
	"w":            wid.ErrCodeInvalidW,
	"z":            wid.ErrCodeInvalidZ,
	"time_unit":    wid.ErrCodeInvalidTimeUnit,
	"node":         wid.ErrCodeInvalidNode,
	"scope":        wid.ErrCodeInvalidScope,
	"retry_budget": wid.ErrCodeInvalidRetryBudget,
}

// toConfigError reports the first schema violation, keyed by the field it
// sits on.
func toConfigError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &wid.ConfigError{Code: wid.ErrCodeInvalidConfig, Message: err.Error()}
	}
	first := errs[0]
	field := ""
	if path := first.Path(); len(path) > 0 {
		field = path[len(path)-1]
	}
	code, ok := fieldCodes[field]
	if !ok {
		code = wid.ErrCodeInvalidConfig
	}
	return &wid.ConfigError{Code: code, Field: field, Message: first.Error()}
}

// KindValue returns Kind as a wid.Kind.
func (c *Config) KindValue() wid.Kind {
	return wid.Kind(c.Kind)
}

// Params returns the structural parameters.
func (c *Config) Params() wid.Params {
	return wid.Params{W: c.W, Z: c.Z, Unit: tick.Unit(c.TimeUnit)}
}

// StatePath is where state and sql modes keep counters: DB when set,
// otherwise <data_dir>/wid_state.sqlite.
func (c *Config) StatePath() string {
	if c.DB != "" {
		return c.DB
	}
	return filepath.Join(c.DataDir, StateFile)
}
