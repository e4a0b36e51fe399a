package parser

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapedi/pkg/edi"
)

var (
	// elementSepPattern matches the first character that cannot belong to a
	// segment identifier or alphanumeric payload.
	elementSepPattern = regexp.MustCompile(`[^A-Za-z0-9]`)

	// terminatorPattern matches a control character or tilde followed only
	// by whitespace running to the end of the text.
	terminatorPattern = regexp.MustCompile(`[\x00-\x1f~]\s*$`)
)

// InferSeparators resolves the element separator and segment terminator for
// text, keeping any delimiter already set in opts. The element separator is
// the first non-alphanumeric character. The segment terminator comes from
// the fixed-width interchange header when the text starts with "ISA" and is
// long enough; otherwise it is the character that closes the final segment,
// allowing trailing whitespace after it. Component and repetition
// separators are never inferred here: the header segment declares them
// during tokenization.
func InferSeparators(text string, opts edi.Options) (edi.Options, error) {
	if !opts.ElementSeparator.IsSet() {
		loc := elementSepPattern.FindStringIndex(text)
		if loc == nil {
			return opts, &FormatError{Message: ErrElementSeparator}
		}
		sep, _ := runeAtByte(text, loc[0])
		opts.ElementSeparator = edi.NewDelim(sep)
	}
	if !opts.SegmentTerminator.IsSet() {
		term, ok := inferTerminator(text)
		if !ok {
			return opts, &FormatError{Message: ErrSegmentTerminator}
		}
		opts.SegmentTerminator = edi.NewDelim(term)
	}
	return opts, nil
}

func inferTerminator(text string) (rune, bool) {
	if hasHeaderPrefix(text) {
		if r, ok := runeAt(text, edi.ISATerminatorOffset); ok {
			return r, true
		}
	}
	loc := terminatorPattern.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	return runeAtByte(text, loc[0])
}

func hasHeaderPrefix(text string) bool {
	return len(text) >= len(edi.IDInterchangeHeader) &&
		strings.EqualFold(text[:len(edi.IDInterchangeHeader)], edi.IDInterchangeHeader)
}

// runeAt returns the n-th rune of s.
func runeAt(s string, n int) (rune, bool) {
	count := 0
	for _, r := range s {
		if count == n {
			return r, true
		}
		count++
	}
	return 0, false
}

// runeAtByte returns the rune starting at byte offset i of s.
func runeAtByte(s string, i int) (rune, bool) {
	for _, r := range s[i:] {
		return r, true
	}
	return 0, false
}
