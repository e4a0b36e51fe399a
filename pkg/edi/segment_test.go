package edi_test

import (
	"testing"

	"github.com/leapstack-labs/leapedi/pkg/edi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_SetElementGrows(t *testing.T) {
	s := &edi.Segment{ID: "REF"}
	s.SetValue(3, "ACC123")

	require.Len(t, s.Elements, 4)
	assert.Nil(t, s.Elements[0])
	assert.Nil(t, s.Elements[1])
	assert.Nil(t, s.Elements[2])
	require.NotNil(t, s.Elements[3])
	assert.Equal(t, "ACC123", s.Value(3))
}

func TestSegment_AbsentVersusEmpty(t *testing.T) {
	s := &edi.Segment{ID: "NM1"}
	s.SetValue(2, "")

	assert.Nil(t, s.Element(0), "unset slot stays absent")
	require.NotNil(t, s.Element(2), "empty value is still present")
	assert.Equal(t, "", s.Value(2))
}

func TestSegment_ElementOutOfRange(t *testing.T) {
	s := edi.NewSegment("ST", "837", "0001")

	assert.Nil(t, s.Element(-1))
	assert.Nil(t, s.Element(5))
	assert.Equal(t, "", s.Value(5))
}

func TestSegment_Is(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "exact", id: "ISA", want: true},
		{name: "lowercase", id: "isa", want: true},
		{name: "mixed case", id: "Isa", want: true},
		{name: "different", id: "IEA", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &edi.Segment{ID: tt.id}
			assert.Equal(t, tt.want, s.Is("ISA"))
		})
	}
}

func TestRepetition_SetComponentGrows(t *testing.T) {
	r := &edi.Repetition{}
	r.SetComponent(2, "B")

	require.Len(t, r.Components, 3)
	assert.Nil(t, r.Component(0))
	assert.Nil(t, r.Component(1))
	assert.Equal(t, "B", r.ComponentValue(2))
	assert.True(t, r.IsComposite())
}

func TestRepetition_Scalar(t *testing.T) {
	tests := []struct {
		name string
		rep  *edi.Repetition
		want string
	}{
		{name: "nil repetition", rep: nil, want: ""},
		{name: "plain value", rep: &edi.Repetition{Value: "HC"}, want: "HC"},
		{
			name: "composite uses first component",
			rep: &edi.Repetition{Components: []*edi.Component{
				{Value: "HC"}, {Value: "99213"},
			}},
			want: "HC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rep.Scalar())
		})
	}
}

func TestElement_Value(t *testing.T) {
	var nilElem *edi.Element
	assert.Equal(t, "", nilElem.Value())

	e := edi.NewElement("00")
	assert.Equal(t, "00", e.Value())

	e.Append(&edi.Repetition{Value: "01"})
	assert.Equal(t, "00", e.Value(), "first repetition wins")
	require.Len(t, e.Repetitions, 2)
}
