package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int // Most recent rows to show; 0 shows everything
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversions",
		Long: `List the conversion ledger, newest first.

Requires a state ledger (--state or state_path in leapedi.yaml); the convert
command records into it.`,
		Example: `  # Last 20 conversions
  leapedi history --state ledger.db

  # Everything, machine-readable
  leapedi history --state ledger.db --limit 0 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Most recent rows to show (0 for all)")

	return cmd
}

// HistoryEntry is one structured-output ledger row.
type HistoryEntry struct {
	ID            string    `json:"id" yaml:"id"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Direction     string    `json:"direction" yaml:"direction"`
	Source        string    `json:"source" yaml:"source"`
	Target        string    `json:"target" yaml:"target"`
	ControlNumber string    `json:"control_number,omitempty" yaml:"control_number,omitempty"`
	Segments      int       `json:"segments" yaml:"segments"`
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if cmdCtx.Cfg.StatePath == "" {
		return fmt.Errorf("no state ledger configured: set --state or state_path")
	}
	store, closeStore, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer closeStore()

	rows, err := store.ListConversions(opts.Limit)
	if err != nil {
		return err
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, c := range rows {
		entries = append(entries, HistoryEntry{
			ID:            c.ID,
			CreatedAt:     c.CreatedAt,
			Direction:     c.Direction,
			Source:        c.Source,
			Target:        c.Target,
			ControlNumber: c.ControlNumber,
			Segments:      c.Segments,
		})
	}

	if done, err := r.Structured(entries); done || err != nil {
		return err
	}

	if len(entries) == 0 {
		r.Info("no conversions recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.AppendHeader(table.Row{"When", "Direction", "Source", "Target", "Control #", "Segments"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Direction,
			e.Source,
			e.Target,
			e.ControlNumber,
			e.Segments,
		})
	}
	renderTable(r, t)
	return nil
}
