// Package parser tokenizes delimited EDI text into the document model.
//
// # Usage
//
//	doc, err := parser.Parse(text, edi.Options{})
//	if err != nil {
//	    // handle error
//	}
//
// Delimiters left unset in the passed options are resolved before
// tokenization: the element separator and segment terminator by inference
// (InferSeparators), the component and repetition separators from the
// interchange header's own fields. Header declarations always win over
// passed-in values, so a document is tokenized with the delimiters it
// declares for itself.
//
// Parsing is permissive. Only an unresolvable element separator or segment
// terminator fails, with a FormatError; every other irregularity degrades
// to absent slots or literal values.
package parser

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// 1-based token positions of the ISA fields that declare delimiters. Token
// zero is the segment identifier, so these sit one past the element index.
const (
	repetitionToken = edi.ISARepetitionElement + 1
	versionToken    = edi.ISAVersionElement + 1
	componentToken  = edi.ISAComponentElement + 1
)

// Parse tokenizes raw EDI text into a Document. Unset delimiters in opts
// are resolved by inference and from the interchange header; the resolved
// set is stored on the returned Document for serialization.
func Parse(text string, opts edi.Options) (*edi.Document, error) {
	work, err := InferSeparators(text, opts)
	if err != nil {
		return nil, err
	}
	doc := &edi.Document{}
	for _, frag := range strings.Split(text, work.SegmentTerminator.String()) {
		frag = strings.TrimLeftFunc(frag, unicode.IsSpace)
		if frag == "" {
			continue
		}
		doc.Append(parseSegment(frag, &work))
	}
	doc.Options = work
	return doc, nil
}

// parseSegment splits one terminator-delimited fragment into a segment.
// The working options are updated in place when the fragment is an
// interchange header declaring component or repetition separators.
func parseSegment(frag string, work *edi.Options) *edi.Segment {
	tokens := strings.Split(frag, work.ElementSeparator.String())
	seg := &edi.Segment{ID: tokens[0]}
	isHeader := strings.EqualFold(seg.ID, edi.IDInterchangeHeader)
	for j := 1; j < len(tokens); j++ {
		if isHeader && headerDeclaration(seg, tokens, j, work) {
			continue
		}
		seg.Elements = append(seg.Elements, parseElement(tokens[j], *work))
	}
	return seg
}

// headerDeclaration handles the two ISA fields that declare delimiters for
// the rest of the document, reporting whether the token was consumed as a
// plain element. ISA16 always declares the component separator. ISA11
// declares the repetition separator only on interchanges at version 00402
// or later whose field is non-alphanumeric; on anything older the
// repetition separator is cleared and the token falls through to normal
// parsing.
func headerDeclaration(seg *edi.Segment, tokens []string, j int, work *edi.Options) bool {
	switch j {
	case componentToken:
		if tok := tokens[j]; tok != "" {
			r, _ := runeAtByte(tok, 0)
			work.ComponentSeparator = edi.NewDelim(r)
		}
		seg.Elements = append(seg.Elements, edi.NewElement(tokens[j]))
		return true
	case repetitionToken:
		tok := tokens[j]
		if versionToken < len(tokens) && tokens[versionToken] >= edi.ISARepetitionMinVersion && tok != "" {
			if r, _ := runeAtByte(tok, 0); !isAlphanumeric(r) {
				work.RepetitionSeparator = edi.NewDelim(r)
				seg.Elements = append(seg.Elements, edi.NewElement(tok))
				return true
			}
		}
		work.RepetitionSeparator = edi.Delim{}
	}
	return false
}

// parseElement splits one raw token into repetitions and components using
// the currently declared separators. Empty tokens are absent slots.
func parseElement(tok string, opts edi.Options) *edi.Element {
	if tok == "" {
		return nil
	}
	reps := []string{tok}
	if opts.RepetitionSeparator.IsSet() {
		reps = strings.Split(tok, opts.RepetitionSeparator.String())
	}
	e := &edi.Element{}
	for _, raw := range reps {
		e.Append(parseRepetition(raw, opts))
	}
	return e
}

// parseRepetition yields a composite repetition when the component
// separator actually occurs in the raw text, a scalar otherwise. Empty
// component fragments become absent slots.
func parseRepetition(raw string, opts edi.Options) *edi.Repetition {
	if opts.ComponentSeparator.IsSet() {
		parts := strings.Split(raw, opts.ComponentSeparator.String())
		if len(parts) > 1 {
			rep := &edi.Repetition{}
			for _, p := range parts {
				if p == "" {
					rep.Components = append(rep.Components, nil)
				} else {
					rep.Components = append(rep.Components, &edi.Component{Value: p})
				}
			}
			return rep
		}
	}
	return &edi.Repetition{Value: raw}
}

func isAlphanumeric(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
