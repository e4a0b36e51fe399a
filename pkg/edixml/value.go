package edixml

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type hints recognized on leaf nodes. Anything else passes through as a
// literal string.
const (
	TypeIdentifier   = "id"
	TypeAlphanumeric = "an"
	TypeDate         = "dt"
	TypeTime         = "tm"
	TypeReal         = "r"
	typeNumericLead  = 'n'
)

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
}

var timeLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
	"150405",
	"1504",
}

// EncodeValue converts a literal from the XML side into its canonical EDI
// string for the given type hint: dates become 8-digit YYYYMMDD, times a
// digit-count-driven HHMM through HHMMSSdd, reals a normalized decimal and
// n<d> numerics a fixed-point value with <d> implied decimal places. Any
// parse failure, unknown hint or malformed numeric suffix returns the
// literal unchanged.
func EncodeValue(literal, typ string) string {
	switch typ {
	case TypeDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, literal); err == nil {
				return t.Format("20060102")
			}
		}
		return literal
	case TypeTime:
		return encodeTime(literal)
	case TypeReal:
		if d, err := decimal.NewFromString(literal); err == nil {
			return d.String()
		}
		return literal
	}
	if places, ok := numericPlaces(typ); ok {
		if d, err := decimal.NewFromString(literal); err == nil {
			return d.Shift(int32(places)).Round(0).String()
		}
	}
	return literal
}

// encodeTime renders a parsed time at the precision the literal itself
// used. The target digit count is the number of digits in the literal,
// plus one when the second character is a colon: that extra unit restores
// the hour digit a single-digit hour dropped, telling H:MM apart from an
// HH:MM carrying the same digit count.
func encodeTime(literal string) string {
	var t time.Time
	var err error
	for _, layout := range timeLayouts {
		if t, err = time.Parse(layout, literal); err == nil {
			break
		}
	}
	if err != nil {
		return literal
	}
	digits := countDigits(literal)
	if len(literal) > 1 && literal[1] == ':' {
		digits++
	}
	frac := fmt.Sprintf("%02d", t.Nanosecond()/1e7)
	switch digits {
	case 4:
		return t.Format("1504")
	case 6:
		return t.Format("150405")
	case 7:
		return t.Format("150405") + frac[:1]
	case 8:
		return t.Format("150405") + frac
	}
	return literal
}

// DecodeValue converts a canonical EDI string back into the literal form
// the XML side uses: YYYYMMDD dates to ISO 2006-01-02, packed times to
// colon-separated clock values, and n<d> numerics shifted back to their
// explicit decimal point. Failures return the value unchanged.
func DecodeValue(value, typ string) string {
	switch typ {
	case TypeDate:
		if t, err := time.Parse("20060102", value); err == nil {
			return t.Format("2006-01-02")
		}
		return value
	case TypeTime:
		return decodeTime(value)
	case TypeReal:
		if d, err := decimal.NewFromString(value); err == nil {
			return d.String()
		}
		return value
	}
	if places, ok := numericPlaces(typ); ok {
		if d, err := decimal.NewFromString(value); err == nil {
			return d.Shift(int32(-places)).String()
		}
	}
	return value
}

func decodeTime(value string) string {
	if !allDigits(value) {
		return value
	}
	switch len(value) {
	case 4:
		if t, err := time.Parse("1504", value); err == nil {
			return t.Format("15:04")
		}
	case 6:
		if t, err := time.Parse("150405", value); err == nil {
			return t.Format("15:04:05")
		}
	case 7, 8:
		if t, err := time.Parse("150405", value[:6]); err == nil {
			return t.Format("15:04:05") + "." + value[6:]
		}
	}
	return value
}

// numericPlaces reports the implied decimal places of an n<d> type hint.
func numericPlaces(typ string) (int, bool) {
	if len(typ) != 2 || typ[0] != typeNumericLead {
		return 0, false
	}
	if typ[1] < '0' || typ[1] > '9' {
		return 0, false
	}
	return int(typ[1] - '0'), true
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
