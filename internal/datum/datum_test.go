package datum

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/stsctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsProduceValidDatums(t *testing.T) {
	testlog.Start(t)
	ts := time.Unix(1700000000, 0)
	text := strings.Repeat("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 3)

	data := []Datum{
		NewInteger(1090, ts, 1),
		NewFloat(1091, ts, 1.0),
		NewText(1092, ts, text),
		NewIntegerWithText(1093, ts, 1, text),
		NewFloatWithText(1094, ts, 1.0, text),
		NewExponent(1095, ts, 1.0),
	}
	for i, d := range data {
		require.NoError(t, d.Validate(), "datum %d", i)
		assert.Equal(t, Format(i), d.Format)
		assert.True(t, d.HasID)
	}
}

func TestZeroDatumHasNoID(t *testing.T) {
	testlog.Start(t)
	var d Datum
	assert.Equal(t, FormatInteger, d.Format)
	assert.ErrorIs(t, d.Validate(), ErrMissingID)
	assert.Equal(t, "Datum(id=None, format=INTEGER, timestamp=0, value=None)", d.String())
}

func TestZeroTimestampIsEpoch(t *testing.T) {
	testlog.Start(t)
	sec, err := UnixSeconds(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), sec)

	d := NewInteger(1, time.Time{}, 5)
	require.NoError(t, d.Validate())
	assert.True(t, d.Equal(NewInteger(1, time.Unix(0, 0), 5)))
	assert.Equal(t, int64(0), FromDatum(d).Timestamp)
}

func TestValidateRejectsMismatchedValue(t *testing.T) {
	testlog.Start(t)
	ts := time.Unix(0, 0)
	cases := []struct {
		name   string
		format Format
		value  Value
	}{
		{"integer given float", FormatInteger, Float(1.5)},
		{"float given int", FormatFloat, Int(1)},
		{"exponent given text", FormatExponent, Text("x")},
		{"text given int", FormatText, Int(3)},
		{"integer with text given float text", FormatIntegerWithText, FloatText{Float: 1, Text: "m"}},
		{"float with text given int text", FormatFloatWithText, IntText{Int: 1, Text: "m"}},
		{"nil value", FormatText, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(7, tc.format, ts, tc.value)
			assert.ErrorIs(t, err, ErrValueMismatch)
		})
	}
}

func TestValidateRejectsInvalidFormat(t *testing.T) {
	testlog.Start(t)
	_, err := New(0, Format(6), time.Unix(0, 0), Int(0))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidateRejectsWideText(t *testing.T) {
	testlog.Start(t)
	err := NewText(1, time.Unix(0, 0), "snow ☃").Validate()
	assert.ErrorIs(t, err, ErrTextEncoding)
	require.NoError(t, NewText(1, time.Unix(0, 0), "café").Validate())
}

func TestValidateRejectsTimestampOutOfRange(t *testing.T) {
	testlog.Start(t)
	err := NewInteger(1, time.Unix(math.MaxInt32+1, 0), 0).Validate()
	assert.ErrorIs(t, err, ErrTimestampRange)

	sec, err := UnixSeconds(time.Unix(math.MaxInt32, 999))
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), sec)
}

func TestTextEncodingIsOneBytePerCodePoint(t *testing.T) {
	testlog.Start(t)
	b, err := EncodeText("café")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, b)
	assert.Equal(t, "café", DecodeText(b))

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	back, err := EncodeText(DecodeText(all))
	require.NoError(t, err)
	assert.Equal(t, all, back)
}

func TestEqualTreatsNaNBitsAsSame(t *testing.T) {
	testlog.Start(t)
	ts := time.Unix(10, 0)
	a := NewFloat(1, ts, math.NaN())
	b := NewFloat(1, ts.Add(400*time.Millisecond), math.NaN())
	assert.True(t, a.Equal(b))
	assert.False(t, NewFloat(1, ts, 1).Equal(NewExponent(1, ts, 1)))
	assert.True(t, NewFloatWithText(1, ts, math.Inf(-1), "s").Equal(NewFloatWithText(1, ts, math.Inf(-1), "s")))
}

func TestDatumString(t *testing.T) {
	testlog.Start(t)
	d := NewIntegerWithText(1093, time.Unix(1234567890, 0), 3, "m")
	assert.Equal(t, `Datum(id=1093, format=INTEGER_WITH_TEXT, timestamp=1234567890, value=(3, "m"))`, d.String())
}

func TestParseFormat(t *testing.T) {
	testlog.Start(t)
	for raw, want := range map[string]Format{
		"integer":            FormatInteger,
		"FLOAT":              FormatFloat,
		"float-with-text":    FormatFloatWithText,
		" integer_with_text": FormatIntegerWithText,
		"5":                  FormatExponent,
		"text":               FormatText,
	} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseFormat("double")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.Equal(t, "Format(9)", Format(9).String())
}
