package format

import (
	"testing"

	"github.com/leapstack-labs/leapedi/pkg/edi"
	"github.com/leapstack-labs/leapedi/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInterchange = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       " +
	"*240305*1200*^*00501*000000001*0*P*:~" +
	"GS*HC*SENDER*RECEIVER*20240305*1200*1*X*005010~" +
	"ST*837*0001~" +
	"REF*4N**ACC123~" +
	"HI*ABK:S72::401A~" +
	"DTP*472*D8*20240301^20240302~" +
	"SE*5*0001~" +
	"GE*1*1~" +
	"IEA*1*000000001~"

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  edi.Options
	}{
		{
			name:  "full interchange",
			input: sampleInterchange,
		},
		{
			name:  "absent slots keep alignment",
			input: "REF*4N**ACC123*~",
			opts:  edi.Options{SegmentTerminator: edi.NewDelim('~')},
		},
		{
			name:  "pre 00402 interchange",
			input: "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *240305*1200*U*00400*000000001*0*P*:~DTP*A^B~",
		},
		{
			name: "explicit delimiters",
			input: "QTY|1!QTY|2!",
			opts: edi.Options{
				SegmentTerminator: edi.NewDelim('!'),
				ElementSeparator:  edi.NewDelim('|'),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parser.Parse(tt.input, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.input, Format(doc))
		})
	}
}

func TestFormat_ReparseIsStructurallyEqual(t *testing.T) {
	doc, err := parser.Parse(sampleInterchange, edi.Options{})
	require.NoError(t, err)

	again, err := parser.Parse(Format(doc), edi.Options{})
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestFormat_ProgrammaticDocumentUsesDefaults(t *testing.T) {
	doc := edi.NewDocument()
	doc.Append(edi.NewSegment("ST", "837", "0001"))
	doc.Append(edi.NewSegment("SE", "2", "0001"))

	assert.Equal(t, "ST*837*0001~SE*2*0001~", Format(doc))
}

func TestFormat_ZeroValueDocumentFallsBack(t *testing.T) {
	doc := &edi.Document{}
	doc.Append(edi.NewSegment("BHT", "0019"))

	assert.Equal(t, "BHT*0019~", Format(doc))
}

func TestFormat_HeaderOverridesDocumentOptions(t *testing.T) {
	// The header declares ";" and "!" even though the document's own
	// options carry the conventional defaults.
	isa := edi.NewSegment(edi.IDInterchangeHeader,
		"00", "          ", "00", "          ",
		"ZZ", "SENDER         ", "ZZ", "RECEIVER       ",
		"240305", "1200", "!", "00501", "000000042", "0", "P", ";")

	claim := &edi.Segment{ID: "CLM"}
	rep := &edi.Repetition{}
	rep.SetComponent(0, "A")
	rep.SetComponent(1, "B")
	claim.SetElement(0, &edi.Element{Repetitions: []*edi.Repetition{rep}})

	dtp := &edi.Segment{ID: "DTP"}
	dtp.SetElement(0, &edi.Element{Repetitions: []*edi.Repetition{
		{Value: "X"}, {Value: "Y"},
	}})

	doc := edi.NewDocument()
	doc.Append(isa, claim, dtp)

	out := Format(doc)
	assert.Contains(t, out, "CLM*A;B~")
	assert.Contains(t, out, "DTP*X!Y~")
}

func TestFormat_VersionGateClearsRepetition(t *testing.T) {
	isa := edi.NewSegment(edi.IDInterchangeHeader,
		"00", "          ", "00", "          ",
		"ZZ", "SENDER         ", "ZZ", "RECEIVER       ",
		"240305", "1200", "^", "00400", "000000042", "0", "P", ":")

	dtp := &edi.Segment{ID: "DTP"}
	dtp.SetElement(0, &edi.Element{Repetitions: []*edi.Repetition{
		{Value: "X"}, {Value: "Y"},
	}})

	doc := edi.NewDocument()
	doc.Append(isa, dtp)

	assert.Contains(t, Format(doc), "DTP*XY~",
		"a cleared repetition separator writes repetitions back to back")
}

func TestFormatWith_SegmentNewline(t *testing.T) {
	doc := edi.NewDocument()
	doc.Append(edi.NewSegment("ST", "837", "0001"))
	doc.Append(edi.NewSegment("SE", "2", "0001"))

	out := FormatWith(doc, Options{SegmentNewline: true})
	assert.Equal(t, "ST*837*0001~\nSE*2*0001~\n", out)

	reparsed, err := parser.Parse(out, edi.Options{})
	require.NoError(t, err)
	require.Len(t, reparsed.Segments, 2)
}

func TestFormat_AbsentElementVersusEmptyComponent(t *testing.T) {
	seg := &edi.Segment{ID: "NM1"}
	seg.SetValue(2, "DOE")
	rep := &edi.Repetition{}
	rep.SetComponent(2, "MI")
	seg.SetElement(3, &edi.Element{Repetitions: []*edi.Repetition{rep}})

	doc := edi.NewDocument()
	doc.Append(seg)

	assert.Equal(t, "NM1***DOE*::MI~", Format(doc))
}
