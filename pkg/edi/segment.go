package edi

import "strings"

// Segment IDs with structural meaning for interchange envelopes.
const (
	IDInterchangeHeader  = "ISA"
	IDInterchangeTrailer = "IEA"
	IDGroupHeader        = "GS"
	IDGroupTrailer       = "GE"
	IDTransactionHeader  = "ST"
	IDTransactionTrailer = "SE"
)

// Fixed geometry of the ISA segment. Positions are 0-based element indexes
// into Segment.Elements; the header always carries 16 elements.
const (
	// ISARepetitionElement holds the repetition separator (ISA11) on
	// interchanges at ISARepetitionMinVersion or later.
	ISARepetitionElement = 10

	// ISAVersionElement holds the interchange control version (ISA12).
	ISAVersionElement = 11

	// ISAControlElement holds the interchange control number (ISA13).
	ISAControlElement = 12

	// ISAComponentElement holds the component separator (ISA16).
	ISAComponentElement = 15

	// ISATerminatorOffset is the byte offset of the segment terminator in a
	// fixed-width interchange header.
	ISATerminatorOffset = 105

	// ISARepetitionMinVersion is the first control version whose ISA11
	// carries a repetition separator rather than a standards identifier.
	ISARepetitionMinVersion = "00402"
)

// Segment is one EDI segment: an ID followed by positional elements. A nil
// entry in Elements is an absent element, which serializes as consecutive
// separators and is distinct from an element holding an empty string.
type Segment struct {
	ID       string
	Elements []*Element
}

// NewSegment returns a segment with the given ID and one single-value
// element per value.
func NewSegment(id string, values ...string) *Segment {
	s := &Segment{ID: id}
	for _, v := range values {
		s.Elements = append(s.Elements, NewElement(v))
	}
	return s
}

// Is reports whether the segment ID matches id, ignoring case.
func (s *Segment) Is(id string) bool {
	return s != nil && strings.EqualFold(s.ID, id)
}

// Element returns the element at 0-based position pos, or nil when the slot
// is absent or out of range.
func (s *Segment) Element(pos int) *Element {
	if s == nil || pos < 0 || pos >= len(s.Elements) {
		return nil
	}
	return s.Elements[pos]
}

// Value returns the scalar value at 0-based position pos: the first
// repetition's value, or its first component when the repetition is
// composite. Absent slots yield "".
func (s *Segment) Value(pos int) string {
	return s.Element(pos).Value()
}

// SetElement stores e at 0-based position pos, growing Elements with absent
// slots as needed.
func (s *Segment) SetElement(pos int, e *Element) {
	if pos < 0 {
		return
	}
	for len(s.Elements) <= pos {
		s.Elements = append(s.Elements, nil)
	}
	s.Elements[pos] = e
}

// SetValue stores a single-value element at 0-based position pos, growing
// Elements with absent slots as needed.
func (s *Segment) SetValue(pos int, value string) {
	s.SetElement(pos, NewElement(value))
}

// Element is one positional slot of a segment. Repeated values (separated by
// the repetition separator in text form) appear as multiple Repetitions; the
// common unrepeated case is a single Repetition.
type Element struct {
	Repetitions []*Repetition
}

// NewElement returns an element holding a single scalar repetition.
func NewElement(value string) *Element {
	return &Element{Repetitions: []*Repetition{{Value: value}}}
}

// Value returns the first repetition's scalar value, or its first component
// when composite. Nil or empty elements yield "".
func (e *Element) Value() string {
	if e == nil || len(e.Repetitions) == 0 {
		return ""
	}
	return e.Repetitions[0].Scalar()
}

// Append adds a repetition to the element.
func (e *Element) Append(r *Repetition) {
	e.Repetitions = append(e.Repetitions, r)
}

// Repetition is one occurrence of an element value. It is either scalar
// (Value) or composite (Components); IsComposite distinguishes the two. A
// nil entry in Components is an absent component, distinct from a component
// holding an empty string.
type Repetition struct {
	Value      string
	Components []*Component
}

// IsComposite reports whether the repetition carries components rather than
// a scalar value.
func (r *Repetition) IsComposite() bool {
	return r != nil && len(r.Components) > 0
}

// Scalar returns the repetition's value: the scalar for simple repetitions,
// the first component's value for composite ones. Nil repetitions yield "".
func (r *Repetition) Scalar() string {
	if r == nil {
		return ""
	}
	if r.IsComposite() {
		return r.Components[0].Text()
	}
	return r.Value
}

// Component returns the component at 0-based position pos, or nil when the
// slot is absent or out of range.
func (r *Repetition) Component(pos int) *Component {
	if r == nil || pos < 0 || pos >= len(r.Components) {
		return nil
	}
	return r.Components[pos]
}

// ComponentValue returns the value of the component at 0-based position pos,
// or "" when the slot is absent.
func (r *Repetition) ComponentValue(pos int) string {
	return r.Component(pos).Text()
}

// SetComponent stores a component value at 0-based position pos, growing
// Components with absent slots as needed.
func (r *Repetition) SetComponent(pos int, value string) {
	if pos < 0 {
		return
	}
	for len(r.Components) <= pos {
		r.Components = append(r.Components, nil)
	}
	r.Components[pos] = &Component{Value: value}
}

// Component is a scalar component value inside a composite repetition.
type Component struct {
	Value string
}

// Text returns the component value, or "" for an absent (nil) component.
func (c *Component) Text() string {
	if c == nil {
		return ""
	}
	return c.Value
}
