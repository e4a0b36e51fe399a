package commands

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapedi/internal/fileio"
	"github.com/leapstack-labs/leapedi/pkg/edixml"
	edifmt "github.com/leapstack-labs/leapedi/pkg/format"
	"github.com/leapstack-labs/leapedi/pkg/parser"
)

// ToXMLOptions holds options for the to-xml command.
type ToXMLOptions struct {
	Out    string // Output path; empty writes to stdout
	Indent int    // Indent width; 0 writes compact XML
}

// NewToXMLCommand creates the to-xml command.
func NewToXMLCommand() *cobra.Command {
	opts := &ToXMLOptions{}
	cmd := &cobra.Command{
		Use:   "to-xml <file>",
		Short: "Convert an EDI file to XML",
		Long: `Parse an EDI file and write its XML form.

Segment tags carry the segment ID, field tags carry the ID plus a two-digit
position suffix (REF02 is the second element of a REF segment), and
composite fields nest one more suffixed level.`,
		Example: `  # Convert to stdout, indented
  leapedi to-xml claims.edi

  # Compact XML to a file
  leapedi to-xml claims.edi --indent 0 -o claims.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToXML(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write to file instead of stdout")
	cmd.Flags().IntVar(&opts.Indent, "indent", 2, "Indent width for pretty XML (0 for compact)")

	return cmd
}

func runToXML(cmd *cobra.Command, path string, opts *ToXMLOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	text, err := fileio.ReadFile(path, cmdCtx.Cfg.Encoding)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := parser.Parse(text, cmdCtx.Delims)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	xdoc := edixml.FromDocument(doc)
	if opts.Indent > 0 {
		xdoc.Indent(opts.Indent)
	}
	out, err := xdoc.WriteToString()
	if err != nil {
		return fmt.Errorf("failed to serialize XML: %w", err)
	}

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

// FromXMLOptions holds options for the from-xml command.
type FromXMLOptions struct {
	Out    string // Output path; empty writes to stdout
	Pretty bool   // One segment per line
}

// NewFromXMLCommand creates the from-xml command.
func NewFromXMLCommand() *cobra.Command {
	opts := &FromXMLOptions{}
	cmd := &cobra.Command{
		Use:   "from-xml <file>",
		Short: "Convert an XML file to EDI",
		Long: `Map an XML tree back to delimited EDI text.

Tags ending in "Loop" group segments without contributing one; leaf nodes
may carry a type attribute (id, an, dt, tm, r, n0-n9) selecting the value
encoding. Delimiters come from the configuration, falling back to the
conventional X12 set.`,
		Example: `  # Convert to stdout
  leapedi from-xml claims.xml

  # Write next to the input, one segment per line
  leapedi from-xml claims.xml --pretty -o claims.edi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFromXML(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "One segment per line")

	return cmd
}

func runFromXML(cmd *cobra.Command, path string, opts *FromXMLOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	text, err := fileio.ReadFile(path, cmdCtx.Cfg.Encoding)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	xdoc := etree.NewDocument()
	if err := xdoc.ReadFromString(text); err != nil {
		return fmt.Errorf("failed to parse XML %s: %w", path, err)
	}

	doc := edixml.ToDocument(xdoc)
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
