package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/wid/internal/wid"
)

// StateResult describes a persisted counter row.
type StateResult struct {
	Key      string `json:"key"`
	Found    bool   `json:"found"`
	LastTick int64  `json:"last_tick"`
	LastSeq  int    `json:"last_seq"`

	// Last is the committed (tick, seq) rendered without scope or padding.
	Last string `json:"last,omitempty"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the persisted counter for a namespace",
		Long: `Show the counter row used by state and sql modes for the configured
namespace, W, Z and time unit, and the last WID it committed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(rootOpts, cmd)
		},
	}

	addParamFlags(cmd)
	addStateFlags(cmd)
	return cmd
}

func runState(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	st, err := openStore(cfg)
	if err != nil {
		return formatter.Fail(err)
	}
	defer st.Close()

	p := cfg.Params()
	key := p.Key(cfg.Namespace)
	cur, found, err := st.Load(cmd.Context(), key)
	if err != nil {
		return formatter.Fail(&storageError{err: err})
	}

	result := StateResult{Key: key, Found: found, LastTick: cur.LastTick, LastSeq: cur.LastSeq}
	if found && cur.LastSeq >= 0 {
		result.Last = wid.FormatWid(p, cur.LastTick, cur.LastSeq, "", "")
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if !found {
		return formatter.Record([]Field{{"key", key}, {"found", false}})
	}
	return formatter.Record([]Field{
		{"key", result.Key},
		{"found", result.Found},
		{"last_tick", result.LastTick},
		{"last_seq", result.LastSeq},
		{"last", result.Last},
	})
}
