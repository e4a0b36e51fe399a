package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapedi/internal/cli/output"
	"github.com/leapstack-labs/leapedi/internal/fileio"
	"github.com/leapstack-labs/leapedi/pkg/edi"
	edifmt "github.com/leapstack-labs/leapedi/pkg/format"
	"github.com/leapstack-labs/leapedi/pkg/parser"
)

// previewWidth caps the rendered segment text shown in the table.
const previewWidth = 48

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Sets bool // Include the transaction set table
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse an EDI file and show its structure",
		Long: `Parse an EDI file and display its segments, resolved delimiters and
interchange envelope.

Output adapts to environment:
  - Terminal: Styled table output
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Show the segment table
  leapedi inspect claims.edi

  # Include transaction set boundaries
  leapedi inspect claims.edi --sets

  # Machine-readable summary
  leapedi inspect claims.edi --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Sets, "sets", false, "Show transaction set boundaries")

	return cmd
}

// InspectOutput is the structured output for the inspect command.
type InspectOutput struct {
	File            string              `json:"file" yaml:"file"`
	ControlNumber   string              `json:"control_number,omitempty" yaml:"control_number,omitempty"`
	Delimiters      map[string]string   `json:"delimiters" yaml:"delimiters"`
	Segments        []SegmentSummary    `json:"segments" yaml:"segments"`
	TransactionSets []TransactionOutput `json:"transaction_sets" yaml:"transaction_sets"`
}

// SegmentSummary describes one segment row.
type SegmentSummary struct {
	Position int    `json:"position" yaml:"position"`
	ID       string `json:"id" yaml:"id"`
	Elements int    `json:"elements" yaml:"elements"`
	Preview  string `json:"preview" yaml:"preview"`
}

// TransactionOutput describes one ST..SE run.
type TransactionOutput struct {
	ID            string `json:"id" yaml:"id"`
	ControlNumber string `json:"control_number" yaml:"control_number"`
	Segments      int    `json:"segments" yaml:"segments"`
}

func runInspect(cmd *cobra.Command, path string, opts *InspectOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	text, err := fileio.ReadFile(path, cmdCtx.Cfg.Encoding)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := parser.Parse(text, cmdCtx.Delims)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	out := buildInspectOutput(path, doc)

	if done, err := r.Structured(out); done || err != nil {
		return err
	}

	r.Printf("%s: %d segment(s)\n", path, len(out.Segments))
	if out.ControlNumber != "" {
		r.Printf("Interchange control number: %s\n", out.ControlNumber)
	}
	r.Printf("Delimiters: segment=%q element=%q component=%q repetition=%q\n",
		out.Delimiters["segment_terminator"],
		out.Delimiters["element_separator"],
		out.Delimiters["component_separator"],
		out.Delimiters["repetition_separator"])
	r.Println()

	renderSegmentTable(r, out.Segments)

	if opts.Sets {
		r.Println()
		renderSetTable(r, out.TransactionSets)
	}
	return nil
}

func buildInspectOutput(path string, doc *edi.Document) InspectOutput {
	out := InspectOutput{
		File:          path,
		ControlNumber: doc.ControlNumber(),
		Delimiters: map[string]string{
			"segment_terminator":   doc.Options.SegmentTerminator.String(),
			"element_separator":    doc.Options.ElementSeparator.String(),
			"component_separator":  doc.Options.ComponentSeparator.String(),
			"repetition_separator": doc.Options.RepetitionSeparator.String(),
		},
		Segments:        []SegmentSummary{},
		TransactionSets: []TransactionOutput{},
	}

	for i, seg := range doc.Segments {
		out.Segments = append(out.Segments, SegmentSummary{
			Position: i + 1,
			ID:       seg.ID,
			Elements: len(seg.Elements),
			Preview:  segmentPreview(seg, doc.Options),
		})
	}
	for _, ts := range doc.TransactionSets() {
		out.TransactionSets = append(out.TransactionSets, TransactionOutput{
			ID:            ts.ID(),
			ControlNumber: ts.ControlNumber(),
			Segments:      len(ts.Segments),
		})
	}
	return out
}

// segmentPreview renders one segment back to delimited text, truncated for
// table display.
func segmentPreview(seg *edi.Segment, opts edi.Options) string {
	one := &edi.Document{Segments: []*edi.Segment{seg}, Options: opts}
	text := strings.TrimSuffix(edifmt.Format(one), opts.SegmentTerminator.String())
	if len(text) > previewWidth {
		return text[:previewWidth-1] + "…"
	}
	return text
}

func renderSegmentTable(r *output.Renderer, segs []SegmentSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.AppendHeader(table.Row{"#", "ID", "Elements", "Preview"})
	for _, s := range segs {
		t.AppendRow(table.Row{s.Position, s.ID, s.Elements, s.Preview})
	}
	renderTable(r, t)
}

func renderSetTable(r *output.Renderer, sets []TransactionOutput) {
	if len(sets) == 0 {
		r.Info("no transaction sets")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.AppendHeader(table.Row{"Set", "Control #", "Segments"})
	for _, s := range sets {
		t.AppendRow(table.Row{s.ID, s.ControlNumber, s.Segments})
	}
	renderTable(r, t)
}

// renderTable picks the table style by output mode: a light box on
// terminals, markdown everywhere else.
func renderTable(r *output.Renderer, t table.Writer) {
	if r.EffectiveMode() == output.ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
}
