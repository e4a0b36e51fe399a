package edi

// Document is an ordered list of EDI segments together with the delimiter
// set used to serialize it. Parsed documents carry the delimiters that were
// declared or inferred from the source text; documents built from scratch
// start from DefaultOptions.
type Document struct {
	Segments []*Segment
	Options  Options
}

// NewDocument returns an empty document carrying the conventional X12
// delimiters.
func NewDocument() *Document {
	return &Document{Options: DefaultOptions()}
}

// Append adds segments to the end of the document.
func (d *Document) Append(segs ...*Segment) {
	d.Segments = append(d.Segments, segs...)
}

// RemoveAt deletes the segment at index i, preserving order. It reports
// whether a segment was removed.
func (d *Document) RemoveAt(i int) bool {
	if i < 0 || i >= len(d.Segments) {
		return false
	}
	d.Segments = append(d.Segments[:i], d.Segments[i+1:]...)
	return true
}

// Find returns all segments whose ID matches id, ignoring case.
func (d *Document) Find(id string) []*Segment {
	var out []*Segment
	for _, s := range d.Segments {
		if s.Is(id) {
			out = append(out, s)
		}
	}
	return out
}

// First returns the first segment whose ID matches id, ignoring case, or
// nil when the document has none.
func (d *Document) First(id string) *Segment {
	for _, s := range d.Segments {
		if s.Is(id) {
			return s
		}
	}
	return nil
}

// ControlNumber returns the interchange control number (ISA13) of the first
// interchange header, or "" when the document has none.
func (d *Document) ControlNumber() string {
	return d.First(IDInterchangeHeader).Value(ISAControlElement)
}
