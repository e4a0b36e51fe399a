package format

import (
	"bytes"
	"unicode/utf8"

	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// printer walks a document into delimited text. It keeps a working
// delimiter set that interchange headers override as they are written, so
// a document whose header declares its own separators serializes with
// those rather than whatever its Options happen to hold.
type printer struct {
	output *bytes.Buffer
	work   edi.Options
	opts   Options
}

func newPrinter(delims edi.Options, opts Options) *printer {
	def := edi.DefaultOptions()
	if !delims.SegmentTerminator.IsSet() {
		delims.SegmentTerminator = def.SegmentTerminator
	}
	if !delims.ElementSeparator.IsSet() {
		delims.ElementSeparator = def.ElementSeparator
	}
	return &printer{
		output: &bytes.Buffer{},
		work:   delims,
		opts:   opts,
	}
}

// String returns the rendered output.
func (p *printer) String() string {
	return p.output.String()
}

func (p *printer) document(doc *edi.Document) {
	for _, seg := range doc.Segments {
		if seg.Is(edi.IDInterchangeHeader) {
			p.applyHeader(seg)
		}
		p.segment(seg)
	}
}

// applyHeader mirrors the parser's header handling: ISA16 re-declares the
// component separator and ISA11 the repetition separator, the latter only
// when ISA12 is at version 00402 or later and the field's first character
// is not alphanumeric. A failed gate clears the repetition separator, so a
// pre-00402 document never writes one.
func (p *printer) applyHeader(seg *edi.Segment) {
	if v := seg.Value(edi.ISAComponentElement); v != "" {
		r, _ := utf8.DecodeRuneInString(v)
		p.work.ComponentSeparator = edi.NewDelim(r)
	}
	p.work.RepetitionSeparator = edi.Delim{}
	if seg.Value(edi.ISAVersionElement) >= edi.ISARepetitionMinVersion {
		if v := seg.Value(edi.ISARepetitionElement); v != "" {
			if r, _ := utf8.DecodeRuneInString(v); !isAlphanumeric(r) {
				p.work.RepetitionSeparator = edi.NewDelim(r)
			}
		}
	}
}

func (p *printer) segment(seg *edi.Segment) {
	p.output.WriteString(seg.ID)
	for _, e := range seg.Elements {
		p.output.WriteString(p.work.ElementSeparator.String())
		p.element(e)
	}
	p.output.WriteString(p.work.SegmentTerminator.String())
	if p.opts.SegmentNewline {
		p.output.WriteByte('\n')
	}
}

// element writes an element's repetitions. Absent slots write nothing, so
// they come out as consecutive separators and keep positional alignment.
func (p *printer) element(e *edi.Element) {
	if e == nil {
		return
	}
	for i, rep := range e.Repetitions {
		if i > 0 {
			p.output.WriteString(p.work.RepetitionSeparator.String())
		}
		p.repetition(rep)
	}
}

func (p *printer) repetition(rep *edi.Repetition) {
	if rep == nil {
		return
	}
	if !rep.IsComposite() {
		p.output.WriteString(rep.Value)
		return
	}
	for i, c := range rep.Components {
		if i > 0 {
			p.output.WriteString(p.work.ComponentSeparator.String())
		}
		p.output.WriteString(c.Text())
	}
}

func isAlphanumeric(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
