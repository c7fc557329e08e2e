package datum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is the datum format tag carried in byte 5 of a frame.
type Format uint8

const (
	FormatInteger Format = iota
	FormatFloat
	FormatText
	FormatIntegerWithText
	FormatFloatWithText
	// FormatExponent is FormatFloat on the wire; STS pages render it in
	// exponential notation.
	FormatExponent
)

var formatNames = [...]string{
	FormatInteger:         "INTEGER",
	FormatFloat:           "FLOAT",
	FormatText:            "TEXT",
	FormatIntegerWithText: "INTEGER_WITH_TEXT",
	FormatFloatWithText:   "FLOAT_WITH_TEXT",
	FormatExponent:        "EXPONENT",
}

// Valid reports whether f is one of the six known tags.
func (f Format) Valid() bool {
	return int(f) < len(formatNames)
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return formatNames[f]
}

// HasText reports whether the format carries a trailing text payload.
func (f Format) HasText() bool {
	return f == FormatText || f == FormatIntegerWithText || f == FormatFloatWithText
}

// ParseFormat accepts the canonical names case-insensitively, with '-' or '_'
// separators, and the numeric tags "0".."5".
func ParseFormat(raw string) (Format, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	for i, name := range formatNames {
		if s == name || s == fmt.Sprint(i) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, raw)
}

func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, uint8(f))
	}
	return []byte(strings.ToLower(formatNames[f])), nil
}

// UnmarshalJSON accepts a format name string or a bare numeric tag, so JSON
// bodies and YAML batch files agree.
func (f *Format) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return f.UnmarshalText([]byte(s))
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, b)
	}
	if n < 0 || n >= len(formatNames) {
		return fmt.Errorf("%w: %d", ErrInvalidFormat, n)
	}
	*f = Format(n)
	return nil
}

func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
