package datum

import (
	"fmt"
	"math"
	"strconv"
)

// Value is the payload union. The active member must agree with the datum's
// Format; see Format.Accepts.
type Value interface {
	isValue()
	String() string
}

// Int is the INTEGER payload.
type Int int32

// Float is the FLOAT and EXPONENT payload.
type Float float64

// Text is the TEXT payload. Only code points 0-255 are representable.
type Text string

// IntText is the INTEGER_WITH_TEXT payload.
type IntText struct {
	Int  int32
	Text string
}

// FloatText is the FLOAT_WITH_TEXT payload.
type FloatText struct {
	Float float64
	Text  string
}

func (Int) isValue()       {}
func (Float) isValue()     {}
func (Text) isValue()      {}
func (IntText) isValue()   {}
func (FloatText) isValue() {}

func (v Int) String() string     { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Text) String() string    { return strconv.Quote(string(v)) }
func (v IntText) String() string { return fmt.Sprintf("(%d, %q)", v.Int, v.Text) }
func (v FloatText) String() string {
	return fmt.Sprintf("(%s, %q)", strconv.FormatFloat(v.Float, 'g', -1, 64), v.Text)
}

// Accepts reports whether v is the union member f requires.
func (f Format) Accepts(v Value) bool {
	switch v.(type) {
	case Int:
		return f == FormatInteger
	case Float:
		return f == FormatFloat || f == FormatExponent
	case Text:
		return f == FormatText
	case IntText:
		return f == FormatIntegerWithText
	case FloatText:
		return f == FormatFloatWithText
	default:
		return false
	}
}

// TextOf returns the text component of v, if it has one.
func TextOf(v Value) (string, bool) {
	switch t := v.(type) {
	case Text:
		return string(t), true
	case IntText:
		return t.Text, true
	case FloatText:
		return t.Text, true
	default:
		return "", false
	}
}

// valuesEqual compares floats by bit pattern so NaN payloads that survived a
// round trip compare equal here while NaN != NaN still holds for callers.
func valuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case Float:
		y, ok := b.(Float)
		return ok && floatsEqual(float64(x), float64(y))
	case FloatText:
		y, ok := b.(FloatText)
		return ok && x.Text == y.Text && floatsEqual(x.Float, y.Float)
	default:
		return a == b
	}
}

func floatsEqual(a, b float64) bool {
	return a == b || math.Float64bits(a) == math.Float64bits(b)
}
