package datum

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// Datum is one STS status record. Datums are values: build one with a
// constructor, hand it to the codec, and do not mutate it afterwards.
//
// The zero Datum is an INTEGER datum with no identifier; it fails Validate.
// A zero Timestamp stands for the Unix epoch, timestamp 0 on the wire.
type Datum struct {
	ID        int32
	HasID     bool
	Format    Format
	Timestamp time.Time
	Value     Value
}

// New builds a datum and validates its shape.
func New(id int32, format Format, ts time.Time, v Value) (Datum, error) {
	d := Datum{ID: id, HasID: true, Format: format, Timestamp: ts, Value: v}
	if err := d.Validate(); err != nil {
		return Datum{}, err
	}
	return d, nil
}

func NewInteger(id int32, ts time.Time, v int32) Datum {
	return Datum{ID: id, HasID: true, Format: FormatInteger, Timestamp: ts, Value: Int(v)}
}

func NewFloat(id int32, ts time.Time, v float64) Datum {
	return Datum{ID: id, HasID: true, Format: FormatFloat, Timestamp: ts, Value: Float(v)}
}

func NewText(id int32, ts time.Time, v string) Datum {
	return Datum{ID: id, HasID: true, Format: FormatText, Timestamp: ts, Value: Text(v)}
}

func NewIntegerWithText(id int32, ts time.Time, v int32, text string) Datum {
	return Datum{ID: id, HasID: true, Format: FormatIntegerWithText, Timestamp: ts, Value: IntText{Int: v, Text: text}}
}

func NewFloatWithText(id int32, ts time.Time, v float64, text string) Datum {
	return Datum{ID: id, HasID: true, Format: FormatFloatWithText, Timestamp: ts, Value: FloatText{Float: v, Text: text}}
}

// NewExponent builds a float datum that STS displays in exponential notation.
func NewExponent(id int32, ts time.Time, v float64) Datum {
	return Datum{ID: id, HasID: true, Format: FormatExponent, Timestamp: ts, Value: Float(v)}
}

// Validate checks everything the codec assumes about a datum's shape.
func (d Datum) Validate() error {
	if !d.Format.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidFormat, uint8(d.Format))
	}
	if !d.HasID {
		return ErrMissingID
	}
	if _, err := UnixSeconds(d.Timestamp); err != nil {
		return err
	}
	if d.Value == nil || !d.Format.Accepts(d.Value) {
		return fmt.Errorf("%w: %s requires %s, got %T", ErrValueMismatch, d.Format, memberName(d.Format), d.Value)
	}
	if text, ok := TextOf(d.Value); ok {
		if _, err := EncodeText(text); err != nil {
			return err
		}
	}
	return nil
}

// Equal compares id, format, whole-second timestamp and value.
func (d Datum) Equal(o Datum) bool {
	return d.HasID == o.HasID &&
		d.ID == o.ID &&
		d.Format == o.Format &&
		unixOf(d.Timestamp) == unixOf(o.Timestamp) &&
		valuesEqual(d.Value, o.Value)
}

func (d Datum) String() string {
	id := "None"
	if d.HasID {
		id = fmt.Sprint(d.ID)
	}
	value := "None"
	if d.Value != nil {
		value = d.Value.String()
	}
	return fmt.Sprintf("Datum(id=%s, format=%s, timestamp=%d, value=%s)", id, d.Format, unixOf(d.Timestamp), value)
}

// UnixSeconds truncates ts to whole seconds and checks it fits the wire field.
// The zero time.Time maps to 0.
func UnixSeconds(ts time.Time) (int32, error) {
	sec := unixOf(ts)
	if sec < math.MinInt32 || sec > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrTimestampRange, sec)
	}
	return int32(sec), nil
}

func unixOf(ts time.Time) int64 {
	if ts.IsZero() {
		return 0
	}
	return ts.Unix()
}

// EncodeText converts s to one byte per code point.
func EncodeText(s string) ([]byte, error) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTextEncoding, s)
	}
	return b, nil
}

// DecodeText is the inverse of EncodeText; every byte maps to one code point.
func DecodeText(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO-8859-1 maps all 256 byte values, the decoder cannot fail.
		return string(b)
	}
	return string(out)
}

func memberName(f Format) string {
	switch f {
	case FormatInteger:
		return "Int"
	case FormatFloat, FormatExponent:
		return "Float"
	case FormatText:
		return "Text"
	case FormatIntegerWithText:
		return "IntText"
	case FormatFloatWithText:
		return "FloatText"
	default:
		return "unknown"
	}
}
