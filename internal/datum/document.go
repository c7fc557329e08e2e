package datum

import (
	"fmt"
	"time"
)

// Document is the serialisable form of a Datum used by batch files and the
// HTTP gateway. Which of Int, Float and Text are required depends on Format.
type Document struct {
	ID        int32    `json:"id" yaml:"id"`
	Format    Format   `json:"format" yaml:"format"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	Int       *int32   `json:"int,omitempty" yaml:"int,omitempty"`
	Float     *float64 `json:"float,omitempty" yaml:"float,omitempty"`
	Text      *string  `json:"text,omitempty" yaml:"text,omitempty"`
}

// FromDatum renders d as a Document.
func FromDatum(d Datum) Document {
	doc := Document{ID: d.ID, Format: d.Format, Timestamp: unixOf(d.Timestamp)}
	switch v := d.Value.(type) {
	case Int:
		i := int32(v)
		doc.Int = &i
	case Float:
		f := float64(v)
		doc.Float = &f
	case Text:
		s := string(v)
		doc.Text = &s
	case IntText:
		i, s := v.Int, v.Text
		doc.Int, doc.Text = &i, &s
	case FloatText:
		f, s := v.Float, v.Text
		doc.Float, doc.Text = &f, &s
	}
	return doc
}

// Datum converts the document and validates the result. A missing text
// component is treated as empty; a missing numeric component is an error.
func (doc Document) Datum() (Datum, error) {
	text := ""
	if doc.Text != nil {
		text = *doc.Text
	}
	var v Value
	switch doc.Format {
	case FormatInteger, FormatIntegerWithText:
		if doc.Int == nil {
			return Datum{}, fmt.Errorf("%w: id %d: %s requires int", ErrValueMismatch, doc.ID, doc.Format)
		}
		v = Int(*doc.Int)
		if doc.Format == FormatIntegerWithText {
			v = IntText{Int: *doc.Int, Text: text}
		}
	case FormatFloat, FormatExponent, FormatFloatWithText:
		if doc.Float == nil {
			return Datum{}, fmt.Errorf("%w: id %d: %s requires float", ErrValueMismatch, doc.ID, doc.Format)
		}
		v = Float(*doc.Float)
		if doc.Format == FormatFloatWithText {
			v = FloatText{Float: *doc.Float, Text: text}
		}
	case FormatText:
		v = Text(text)
	default:
		return Datum{}, fmt.Errorf("%w: %d", ErrInvalidFormat, uint8(doc.Format))
	}
	return New(doc.ID, doc.Format, time.Unix(doc.Timestamp, 0), v)
}

// Documents converts a batch, stopping at the first invalid entry.
func Documents(docs []Document) ([]Datum, error) {
	out := make([]Datum, 0, len(docs))
	for i, doc := range docs {
		d, err := doc.Datum()
		if err != nil {
			return nil, fmt.Errorf("datum[%d]: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
