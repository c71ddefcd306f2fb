package canonical

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCanonical(t *testing.T, value any) string {
	t.Helper()
	encoded, err := CanonicalizeAny(value)
	require.NoError(t, err)
	return string(encoded)
}

func TestCanonicalizeSortsKeysAtEveryDepth(t *testing.T) {
	input := map[string]any{
		"z": map[string]any{"b": 2, "a": 1},
		"a": []any{map[string]any{"y": true, "x": nil}, 3},
	}
	assert.Equal(t, `{"a":[{"x":null,"y":true},3],"z":{"a":1,"b":2}}`, mustCanonical(t, input))
}

func TestCanonicalizeKeyOrderIndependent(t *testing.T) {
	first, err := ParseJSON([]byte(`{"id":"record-000","payload":{"amount":100,"currency":"HBAR"},"type":"PAYMENT"}`))
	require.NoError(t, err)
	second, err := ParseJSON([]byte("{\n  \"type\": \"PAYMENT\",\n  \"payload\": {\"currency\": \"HBAR\", \"amount\": 100},\n  \"id\": \"record-000\"\n}"))
	require.NoError(t, err)

	left, err := Canonicalize(first)
	require.NoError(t, err)
	right, err := Canonicalize(second)
	require.NoError(t, err)
	assert.Equal(t, left, right)

	again, err := Canonicalize(first)
	require.NoError(t, err)
	assert.Equal(t, left, again)
}

func TestCanonicalizeArrayOrderMatters(t *testing.T) {
	assert.NotEqual(t, mustCanonical(t, []any{1, 2}), mustCanonical(t, []any{2, 1}))
	assert.Equal(t, `["b","a"]`, mustCanonical(t, []any{"b", "a"}))
}

func TestCanonicalizeByteWiseKeyOrder(t *testing.T) {
	input := map[string]any{"b": 1, "B": 2, "é": 3, "a": 4, "_": 5, "aa": 6}
	assert.Equal(t, `{"B":2,"_":5,"a":4,"aa":6,"b":1,"é":3}`, mustCanonical(t, input))
}

func TestCanonicalizeScalars(t *testing.T) {
	cases := []struct {
		input    any
		expected string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{"hello", `"hello"`},
		{json.Number("42"), "42"},
		{json.Number("1.50"), "1.5"},
		{json.Number("1e3"), "1000"},
		{float32(3.5), "3.5"},
		{2.718, "2.718"},
		{100.0, "100"},
		{-0.0, "0"},
		{int(10), "10"},
		{int8(-8), "-8"},
		{int64(64), "64"},
		{uint8(8), "8"},
		{uint64(64), "64"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{0.000001, "0.000001"},
		{1.5e-7, "1.5e-7"},
		{-2.5e-10, "-2.5e-10"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, mustCanonical(t, tc.input), "input %#v", tc.input)
	}
}

func TestCanonicalizeStringEscaping(t *testing.T) {
	cases := map[string]string{
		"quote\"":           `"quote\""`,
		`back\slash`:        `"back\\slash"`,
		"line\nbreak":       `"line\nbreak"`,
		"tab\tcr\r":         `"tab\tcr\r"`,
		"\b\f":              `"\b\f"`,
		"\x01\x1f":          `"\u0001\u001f"`,
		"h\u00e9llo \u2713": "\"h\u00e9llo \u2713\"",
		"<tag>&amp":         `"<tag>&amp"`,
		"\u2028\u2029":      "\"\u2028\u2029\"",
		"\x7f":              "\"\x7f\"",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, mustCanonical(t, input), "input %q", input)
	}
}

func TestCanonicalizeStructRoundTrip(t *testing.T) {
	type payment struct {
		Name   string  `json:"name"`
		Amount int     `json:"amount"`
		Memo   *string `json:"memo,omitempty"`
	}
	assert.Equal(t, `{"amount":30,"name":"Alice"}`, mustCanonical(t, payment{Name: "Alice", Amount: 30}))
}

func TestCanonicalizeRejectsNonFinite(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := CanonicalizeAny(map[string]any{"amount": value})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEncoding)

		var encodingErr *EncodingError
		require.True(t, errors.As(err, &encodingErr))
		assert.Equal(t, "$.amount", encodingErr.Path)
		assert.Equal(t, ReasonNonFinite, encodingErr.Reason)
	}

	_, err := Canonicalize(Array{Number(math.NaN())})
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = ParseJSON([]byte(`{"big":1e400}`))
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestCanonicalizeRejectsCycles(t *testing.T) {
	record := map[string]any{"id": "loop"}
	record["self"] = record
	_, err := CanonicalizeAny(record)
	require.Error(t, err)

	var encodingErr *EncodingError
	require.True(t, errors.As(err, &encodingErr))
	assert.Equal(t, ReasonCycle, encodingErr.Reason)
	assert.Equal(t, "$.self", encodingErr.Path)

	list := []any{nil}
	list[0] = list
	_, err = CanonicalizeAny(list)
	assert.ErrorIs(t, err, ErrEncoding)

	object := Object{}
	object["inner"] = Array{object}
	_, err = Canonicalize(object)
	require.ErrorAs(t, err, &encodingErr)
	assert.Equal(t, ReasonCycle, encodingErr.Reason)
}

func TestCanonicalizeSharedNonCyclicReference(t *testing.T) {
	shared := map[string]any{"k": 1}
	record := map[string]any{"left": shared, "right": shared}
	assert.Equal(t, `{"left":{"k":1},"right":{"k":1}}`, mustCanonical(t, record))
}

func TestCanonicalizeRejectsInvalidUTF8(t *testing.T) {
	_, err := Canonicalize(Object{"name": String("\xff")})
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = Canonicalize(Object{"\xfe": Null{}})
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a":1} {"b":2}`))
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = ParseJSON([]byte(`{"a":`))
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestRecordsReportsIndex(t *testing.T) {
	_, err := Records([]any{map[string]any{"ok": true}, math.Inf(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestCanonicalizeEmptyContainers(t *testing.T) {
	assert.Equal(t, `{}`, mustCanonical(t, map[string]any{}))
	assert.Equal(t, `[]`, mustCanonical(t, []any{}))

	encoded, err := Canonicalize(Object(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(encoded))
}
