package parser_test

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/leapedi/pkg/edi"
	"github.com/leapstack-labs/leapedi/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isaLine builds a fixed-width 106-character interchange header. The
// repetition field (ISA11), version field (ISA12) and terminator are
// parameters so tests can exercise the gating rules.
func isaLine(rep, version string, term byte) string {
	line := "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       " +
		"*240305*1200*" + rep + "*" + version + "*000000001*0*P*:" + string(term)
	return line
}

func TestParse_Interchange(t *testing.T) {
	text := isaLine("^", "00501", '~') +
		"GS*HC*SENDER*RECEIVER*20240305*1200*1*X*005010~" +
		"ST*837*0001~" +
		"SE*2*0001~" +
		"GE*1*1~" +
		"IEA*1*000000001~"

	doc, err := parser.Parse(text, edi.Options{})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 6)

	assert.Equal(t, "ISA", doc.Segments[0].ID)
	assert.Equal(t, "IEA", doc.Segments[5].ID)
	assert.Equal(t, "000000001", doc.ControlNumber())

	assert.Equal(t, '~', doc.Options.SegmentTerminator.Rune())
	assert.Equal(t, '*', doc.Options.ElementSeparator.Rune())
	assert.Equal(t, ':', doc.Options.ComponentSeparator.Rune())
	assert.Equal(t, '^', doc.Options.RepetitionSeparator.Rune())

	isa := doc.Segments[0]
	require.Len(t, isa.Elements, 16)
	assert.Equal(t, "^", isa.Value(edi.ISARepetitionElement))
	assert.Equal(t, "00501", isa.Value(edi.ISAVersionElement))
	assert.Equal(t, ":", isa.Value(edi.ISAComponentElement))
}

func TestParse_HeaderPrecedence(t *testing.T) {
	text := isaLine("^", "00501", '~') +
		"SVC*HC:99213:25~" +
		"DTP*A^B^C~"

	// Conflicting caller delimiters must lose to the header's own.
	opts := edi.Options{
		ComponentSeparator:  edi.NewDelim('!'),
		RepetitionSeparator: edi.NewDelim('|'),
	}
	doc, err := parser.Parse(text, opts)
	require.NoError(t, err)
	require.Len(t, doc.Segments, 3)

	svc := doc.Segments[1].Element(0)
	require.NotNil(t, svc)
	require.Len(t, svc.Repetitions, 1)
	rep := svc.Repetitions[0]
	require.True(t, rep.IsComposite())
	assert.Equal(t, "HC", rep.ComponentValue(0))
	assert.Equal(t, "99213", rep.ComponentValue(1))
	assert.Equal(t, "25", rep.ComponentValue(2))

	dtp := doc.Segments[2].Element(0)
	require.NotNil(t, dtp)
	require.Len(t, dtp.Repetitions, 3)
	assert.Equal(t, "B", dtp.Repetitions[1].Scalar())
}

func TestParse_VersionGating(t *testing.T) {
	text := isaLine("^", "00400", '~') +
		"DTP*A^B~"

	opts := edi.Options{RepetitionSeparator: edi.NewDelim('^')}
	doc, err := parser.Parse(text, opts)
	require.NoError(t, err)

	isa := doc.Segments[0]
	elem := isa.Element(edi.ISARepetitionElement)
	require.NotNil(t, elem, "gated ISA11 still parses as a normal element")
	assert.Equal(t, "^", elem.Value())

	assert.False(t, doc.Options.RepetitionSeparator.IsSet(),
		"pre-00402 header clears even a caller-supplied repetition separator")

	dtp := doc.Segments[1].Element(0)
	require.NotNil(t, dtp)
	require.Len(t, dtp.Repetitions, 1)
	assert.Equal(t, "A^B", dtp.Repetitions[0].Scalar())
}

func TestParse_AlphanumericISA11StaysElement(t *testing.T) {
	text := isaLine("U", "00501", '~')

	doc, err := parser.Parse(text, edi.Options{})
	require.NoError(t, err)
	assert.False(t, doc.Options.RepetitionSeparator.IsSet())
	assert.Equal(t, "U", doc.Segments[0].Value(edi.ISARepetitionElement))
}

func TestParse_AbsentElements(t *testing.T) {
	text := "REF*4N**ACC123~"

	doc, err := parser.Parse(text, edi.Options{SegmentTerminator: edi.NewDelim('~')})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)

	ref := doc.Segments[0]
	require.Len(t, ref.Elements, 3)
	assert.NotNil(t, ref.Element(0))
	assert.Nil(t, ref.Element(1), "consecutive separators yield an absent slot")
	assert.Equal(t, "ACC123", ref.Value(2))
}

func TestParse_Components(t *testing.T) {
	text := isaLine("^", "00501", '~') +
		"HI*ABK:S72::401A~" +
		"NM1*PLAIN~"

	doc, err := parser.Parse(text, edi.Options{})
	require.NoError(t, err)

	hi := doc.Segments[1].Element(0)
	require.NotNil(t, hi)
	rep := hi.Repetitions[0]
	require.True(t, rep.IsComposite())
	require.Len(t, rep.Components, 4)
	assert.Nil(t, rep.Component(2), "empty component fragment is absent")
	assert.Equal(t, "401A", rep.ComponentValue(3))

	nm1 := doc.Segments[2].Element(0)
	require.NotNil(t, nm1)
	assert.False(t, nm1.Repetitions[0].IsComposite(),
		"no component separator in the token keeps it scalar")
}

func TestParse_WhitespaceBetweenSegments(t *testing.T) {
	text := "ST*837*0001~\nBHT*0019~\n  SE*2*0001~\n"

	doc, err := parser.Parse(text, edi.Options{})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 3)
	assert.Equal(t, "BHT", doc.Segments[1].ID)
	assert.Equal(t, "SE", doc.Segments[2].ID)
}

func TestParse_ExplicitOptionsSkipInference(t *testing.T) {
	// No control character or tilde anywhere: inference would fail, but
	// explicit delimiters make it unnecessary.
	text := "QTY*1|QTY*2|"
	opts := edi.Options{
		SegmentTerminator: edi.NewDelim('|'),
		ElementSeparator:  edi.NewDelim('*'),
	}

	doc, err := parser.Parse(text, opts)
	require.NoError(t, err)
	require.Len(t, doc.Segments, 2)
	assert.Equal(t, "2", doc.Segments[1].Value(0))
}

func TestParse_CallerRepetitionWithoutHeader(t *testing.T) {
	text := "DTP*A^B~"
	opts := edi.Options{RepetitionSeparator: edi.NewDelim('^')}

	doc, err := parser.Parse(text, opts)
	require.NoError(t, err)
	dtp := doc.Segments[0].Element(0)
	require.NotNil(t, dtp)
	assert.Len(t, dtp.Repetitions, 2)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "no separator candidate",
			input:   "ABC123",
			message: parser.ErrElementSeparator,
		},
		{
			name:    "no terminator candidate",
			input:   "ABC*123",
			message: parser.ErrSegmentTerminator,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input, edi.Options{})
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.message)

			var fe *parser.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.message, fe.Message)
		})
	}
}

func TestInferSeparators(t *testing.T) {
	tests := []struct {
		name string
		text string
		elem rune
		term rune
	}{
		{
			name: "fixed width header with uninferable terminator",
			text: isaLine("^", "00501", '|') + "GS*HC|",
			elem: '*',
			term: '|',
		},
		{
			name: "short header falls back to end search",
			text: "ISA*00~",
			elem: '*',
			term: '~',
		},
		{
			name: "tilde with trailing whitespace",
			text: "SEG*A~  \n",
			elem: '*',
			term: '~',
		},
		{
			name: "newline terminator",
			text: "SEG*A\nSEG*B\n",
			elem: '*',
			term: '\n',
		},
		{
			name: "control character terminator",
			text: "SEG*A\x1dSEG*B\x1d",
			elem: '*',
			term: '\x1d',
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parser.InferSeparators(tt.text, edi.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.elem, opts.ElementSeparator.Rune())
			assert.Equal(t, tt.term, opts.SegmentTerminator.Rune())
		})
	}
}

func TestInferSeparators_KeepsExplicit(t *testing.T) {
	opts := edi.Options{
		SegmentTerminator: edi.NewDelim('!'),
		ElementSeparator:  edi.NewDelim('+'),
	}
	got, err := parser.InferSeparators("UNB+1!", opts)
	require.NoError(t, err)
	assert.Equal(t, '!', got.SegmentTerminator.Rune())
	assert.Equal(t, '+', got.ElementSeparator.Rune())
}

func TestParse_LowercaseHeader(t *testing.T) {
	text := strings.Replace(isaLine("^", "00501", '~'), "ISA", "isa", 1) +
		"HI*A:B~"

	doc, err := parser.Parse(text, edi.Options{})
	require.NoError(t, err)
	assert.Equal(t, "isa", doc.Segments[0].ID)
	assert.Equal(t, ':', doc.Options.ComponentSeparator.Rune(),
		"header matching ignores case")

	hi := doc.Segments[1].Element(0)
	require.NotNil(t, hi)
	assert.True(t, hi.Repetitions[0].IsComposite())
}
