package edi

// TransactionSet is a derived view over a contiguous ST..SE run of segments,
// tagged with the interchange and group headers that were open when the run
// started. It shares segment pointers with the document it was derived from.
type TransactionSet struct {
	// Interchange is the ISA segment active at the opening ST, or nil when
	// the ST appeared outside any interchange.
	Interchange *Segment

	// Group is the GS segment active at the opening ST, or nil when the ST
	// appeared outside any functional group.
	Group *Segment

	// Segments runs from the opening ST through the closing SE inclusive.
	// An unterminated set runs to the end of the document.
	Segments []*Segment
}

// ID returns the transaction set identifier (ST01), such as "837", or ""
// for an empty set.
func (ts TransactionSet) ID() string {
	if len(ts.Segments) == 0 {
		return ""
	}
	return ts.Segments[0].Value(0)
}

// ControlNumber returns the transaction set control number (ST02), or ""
// for an empty set.
func (ts TransactionSet) ControlNumber() string {
	if len(ts.Segments) == 0 {
		return ""
	}
	return ts.Segments[0].Value(1)
}

// TransactionSets walks the document once and returns its ST..SE runs in
// order. Each run is tagged with the most recent unclosed ISA and GS
// headers. GE and IEA clear the group and interchange context but do not
// close an open run; unbalanced envelopes are not diagnosed, so stray
// segments keep accumulating into the last-opened run.
func (d *Document) TransactionSets() []TransactionSet {
	var (
		sets        []TransactionSet
		interchange *Segment
		group       *Segment
		open        bool
	)
	for _, seg := range d.Segments {
		switch {
		case seg.Is(IDInterchangeHeader):
			interchange = seg
		case seg.Is(IDGroupHeader):
			group = seg
		case seg.Is(IDGroupTrailer):
			group = nil
		case seg.Is(IDInterchangeTrailer):
			interchange = nil
		case seg.Is(IDTransactionHeader):
			sets = append(sets, TransactionSet{Interchange: interchange, Group: group})
			open = true
		}
		if !open {
			continue
		}
		cur := &sets[len(sets)-1]
		cur.Segments = append(cur.Segments, seg)
		if seg.Is(IDTransactionTrailer) {
			open = false
		}
	}
	return sets
}
