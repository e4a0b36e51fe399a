// Package format renders the document model back into delimited EDI text.
package format

import (
	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// Options controls rendering beyond the document's own delimiter set.
type Options struct {
	// SegmentNewline puts a newline after every segment terminator. The
	// result still parses identically: fragment-leading whitespace is
	// discarded during tokenization.
	SegmentNewline bool
}

// Format renders doc using the delimiters it carries. Unset segment and
// element delimiters fall back to the conventional X12 defaults; component
// and repetition separators stay as they are, since their absence is
// meaningful.
func Format(doc *edi.Document) string {
	return FormatWith(doc, Options{})
}

// FormatWith renders doc with explicit render options.
func FormatWith(doc *edi.Document, opts Options) string {
	p := newPrinter(doc.Options, opts)
	p.document(doc)
	return p.String()
}
