package edi

// Delim is an optional delimiter character. The zero value is unset, which
// lets callers leave individual delimiters open for the parser to infer;
// this matters because NUL is a legal segment terminator, so a bare rune
// cannot double as its own "not set" marker.
type Delim struct {
	r   rune
	set bool
}

// NewDelim returns a set delimiter for r.
func NewDelim(r rune) Delim {
	return Delim{r: r, set: true}
}

// Rune returns the delimiter character. It is only meaningful when IsSet
// reports true.
func (d Delim) Rune() rune {
	return d.r
}

// IsSet reports whether the delimiter has been assigned.
func (d Delim) IsSet() bool {
	return d.set
}

// String returns the delimiter as a string, or "" when unset.
func (d Delim) String() string {
	if !d.set {
		return ""
	}
	return string(d.r)
}

// Options is the delimiter set attached to a Document. Any delimiter may be
// left unset: the parser fills unset slots from the interchange header or by
// inference, and the serializer falls back to DefaultOptions for slots that
// are still open.
type Options struct {
	// SegmentTerminator ends every segment. Conventionally "~", though
	// control characters and newline-padded terminators occur in the wild.
	SegmentTerminator Delim

	// ElementSeparator splits a segment into elements. Conventionally "*".
	ElementSeparator Delim

	// ComponentSeparator splits an element into components. It is declared
	// by the interchange header itself (the last ISA field).
	ComponentSeparator Delim

	// RepetitionSeparator splits an element into repeated values. It is
	// declared by ISA11 on interchanges at version 00402 or later.
	RepetitionSeparator Delim
}

// DefaultOptions returns the conventional X12 delimiter set: "~" segment
// terminator, "*" element separator, ":" component separator and "^"
// repetition separator.
func DefaultOptions() Options {
	return Options{
		SegmentTerminator:   NewDelim('~'),
		ElementSeparator:    NewDelim('*'),
		ComponentSeparator:  NewDelim(':'),
		RepetitionSeparator: NewDelim('^'),
	}
}

// Merge returns a copy of o with any unset delimiters filled in from other.
func (o Options) Merge(other Options) Options {
	if !o.SegmentTerminator.IsSet() {
		o.SegmentTerminator = other.SegmentTerminator
	}
	if !o.ElementSeparator.IsSet() {
		o.ElementSeparator = other.ElementSeparator
	}
	if !o.ComponentSeparator.IsSet() {
		o.ComponentSeparator = other.ComponentSeparator
	}
	if !o.RepetitionSeparator.IsSet() {
		o.RepetitionSeparator = other.RepetitionSeparator
	}
	return o
}
