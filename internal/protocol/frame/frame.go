package frame

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/protocol"
)

const (
	HeaderSize   = 10
	IntegerSize  = 4
	FloatSize    = 8
	MaxFrameSize = 127

	// LengthFlag marks byte 0 as a length byte; the low seven bits are the
	// total frame length, header included.
	LengthFlag byte = 0x80
	LengthMask byte = 0x7F
)

const (
	offID        = 1
	offFormat    = 5
	offTimestamp = 6
)

// EncodeInfo reports what Encode had to drop to fit MaxFrameSize.
type EncodeInfo struct {
	Truncated bool
	Dropped   int
}

// PrefixSize is the fixed numeric payload that precedes any text for f.
func PrefixSize(f datum.Format) int {
	switch f {
	case datum.FormatInteger, datum.FormatIntegerWithText:
		return IntegerSize
	case datum.FormatFloat, datum.FormatExponent, datum.FormatFloatWithText:
		return FloatSize
	default:
		return 0
	}
}

// MaxTextLen is the text budget for f: 117 for TEXT, 113 for
// INTEGER_WITH_TEXT, 109 for FLOAT_WITH_TEXT and 0 otherwise.
func MaxTextLen(f datum.Format) int {
	if !f.HasText() {
		return 0
	}
	return MaxFrameSize - HeaderSize - PrefixSize(f)
}

// Encode serialises d into one frame, truncating trailing text to fit.
func Encode(d datum.Datum) ([]byte, error) {
	b, _, err := EncodeWithInfo(d)
	return b, err
}

// EncodeWithInfo is Encode plus a report of any text truncation.
// Format: [len|0x80(1)][id(4)][format(1)][timestamp(4)][payload]
func EncodeWithInfo(d datum.Datum) ([]byte, EncodeInfo, error) {
	var info EncodeInfo
	if !d.Format.Valid() {
		return nil, info, fmt.Errorf("%w: %d", protocol.ErrUnsupportedFormat, uint8(d.Format))
	}
	if !d.HasID {
		return nil, info, datum.ErrMissingID
	}
	if d.Value == nil || !d.Format.Accepts(d.Value) {
		return nil, info, fmt.Errorf("%w: %s with %T", datum.ErrValueMismatch, d.Format, d.Value)
	}
	ts, err := datum.UnixSeconds(d.Timestamp)
	if err != nil {
		return nil, info, err
	}

	var text []byte
	if s, ok := datum.TextOf(d.Value); ok {
		text, err = datum.EncodeText(s)
		if err != nil {
			return nil, info, err
		}
		if limit := MaxTextLen(d.Format); len(text) > limit {
			info = EncodeInfo{Truncated: true, Dropped: len(text) - limit}
			text = text[:limit]
		}
	}

	size := HeaderSize + PrefixSize(d.Format) + len(text)
	buf := make([]byte, size)
	buf[0] = byte(size) | LengthFlag
	binary.BigEndian.PutUint32(buf[offID:], uint32(d.ID))
	buf[offFormat] = byte(d.Format)
	binary.BigEndian.PutUint32(buf[offTimestamp:], uint32(ts))

	payload := buf[HeaderSize:]
	switch v := d.Value.(type) {
	case datum.Int:
		binary.BigEndian.PutUint32(payload, uint32(v))
	case datum.Float:
		binary.BigEndian.PutUint64(payload, math.Float64bits(float64(v)))
	case datum.IntText:
		binary.BigEndian.PutUint32(payload, uint32(v.Int))
	case datum.FloatText:
		binary.BigEndian.PutUint64(payload, math.Float64bits(v.Float))
	}
	copy(payload[PrefixSize(d.Format):], text)
	return buf, info, nil
}

// FrameLen returns the total frame length declared by a frame's first byte.
func FrameLen(first byte) (int, error) {
	if first&LengthFlag == 0 {
		return 0, fmt.Errorf("%w: byte 0 is 0x%02x", protocol.ErrMalformedHeader, first)
	}
	return int(first & LengthMask), nil
}

// Decode parses one complete frame. b must hold exactly the declared length.
func Decode(b []byte) (datum.Datum, error) {
	if len(b) == 0 {
		return datum.Datum{}, fmt.Errorf("%w: empty frame", protocol.ErrMalformedHeader)
	}
	declared, err := FrameLen(b[0])
	if err != nil {
		return datum.Datum{}, err
	}
	if declared != len(b) {
		return datum.Datum{}, fmt.Errorf("%w: declared %d, got %d", protocol.ErrLengthMismatch, declared, len(b))
	}
	if len(b) < HeaderSize {
		return datum.Datum{}, fmt.Errorf("%w: %d bytes is shorter than the header", protocol.ErrLengthMismatch, len(b))
	}

	format := datum.Format(b[offFormat])
	if !format.Valid() {
		return datum.Datum{}, fmt.Errorf("%w: %d", protocol.ErrUnsupportedFormat, b[offFormat])
	}
	prefix := PrefixSize(format)
	payload := b[HeaderSize:]
	if len(payload) < prefix || (!format.HasText() && len(payload) != prefix) {
		return datum.Datum{}, fmt.Errorf("%w: %s payload is %d bytes", protocol.ErrLengthMismatch, format, len(payload))
	}

	text := datum.DecodeText(payload[prefix:])
	var v datum.Value
	switch format {
	case datum.FormatInteger:
		v = datum.Int(int32(binary.BigEndian.Uint32(payload)))
	case datum.FormatFloat, datum.FormatExponent:
		v = datum.Float(math.Float64frombits(binary.BigEndian.Uint64(payload)))
	case datum.FormatText:
		v = datum.Text(text)
	case datum.FormatIntegerWithText:
		v = datum.IntText{Int: int32(binary.BigEndian.Uint32(payload)), Text: text}
	case datum.FormatFloatWithText:
		v = datum.FloatText{Float: math.Float64frombits(binary.BigEndian.Uint64(payload)), Text: text}
	}

	return datum.Datum{
		ID:        int32(binary.BigEndian.Uint32(b[offID:])),
		HasID:     true,
		Format:    format,
		Timestamp: time.Unix(int64(int32(binary.BigEndian.Uint32(b[offTimestamp:]))), 0),
		Value:     v,
	}, nil
}
