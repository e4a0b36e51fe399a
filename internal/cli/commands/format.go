package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapedi/internal/fileio"
	"github.com/leapstack-labs/leapedi/pkg/edi"
	edifmt "github.com/leapstack-labs/leapedi/pkg/format"
	"github.com/leapstack-labs/leapedi/pkg/parser"
)

// FormatOptions holds options for the format command.
type FormatOptions struct {
	Out    string // Output path; empty writes to stdout
	Pretty bool   // One segment per line
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Parse and re-serialize an EDI file",
		Long: `Parse an EDI file and write it back out.

Delimiter flags (--segment-terminator and friends) apply to the output, so
format doubles as a delimiter rewriter; the input's own delimiters are
inferred. The interchange header still declares the component and repetition
separators, so those two follow the header rather than the flags. --pretty
puts every segment on its own line; the result still parses identically.`,
		Example: `  # Normalize a file to stdout
  leapedi format claims.edi

  # One segment per line, written next to the input
  leapedi format claims.edi --pretty -o claims.clean.edi

  # Rewrite the segment terminator to newlines
  leapedi format claims.edi --segment-terminator "
"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "One segment per line")

	return cmd
}

func runFormat(cmd *cobra.Command, path string, opts *FormatOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	text, err := fileio.ReadFile(path, cmdCtx.Cfg.Encoding)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := parser.Parse(text, edi.Options{})
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.Options = cmdCtx.Delims.Merge(doc.Options)

	pretty := opts.Pretty || (!cmd.Flags().Changed("pretty") && cmdCtx.Cfg.Pretty)
	out := edifmt.FormatWith(doc, edifmt.Options{SegmentNewline: pretty})

	if opts.Out != "" {
		if err := fileio.WriteFile(opts.Out, out); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.Out, err)
		}
		cmdCtx.Renderer.Success(fmt.Sprintf("wrote %s", opts.Out))
		return nil
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
