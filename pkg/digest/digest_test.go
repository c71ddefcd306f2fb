package digest

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	emptyHex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	aHex     = "ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb"
	bHex     = "3e23e8160039594a33894f6564e1b1348bbd7a0088d42c4acb73eeaed59c009d"
	abHex    = "e5a01fee14e0ed5c48714f22180f25ad8365b53f9779f79dc4a3d7e93963f94a"
)

func TestSumVectors(t *testing.T) {
	assert.Equal(t, emptyHex, Sum(nil).Hex())
	assert.Equal(t, emptyHex, Sum([]byte{}).Hex())
	assert.Equal(t, aHex, Sum([]byte("a")).Hex())
	assert.Equal(t, bHex, Sum([]byte("b")).Hex())
}

func TestSumMatchesStandardLibrary(t *testing.T) {
	payload := []byte(strings.Repeat("merkle-anchor", 1000))
	assert.Equal(t, Digest(sha256.Sum256(payload)), Sum(payload))
}

func TestPairIsOrderedConcatenation(t *testing.T) {
	a := Sum([]byte("a"))
	b := Sum([]byte("b"))

	assert.Equal(t, abHex, Pair(a, b).Hex())
	assert.NotEqual(t, Pair(a, b), Pair(b, a))

	concatenated := append(a.Bytes(), b.Bytes()...)
	assert.Equal(t, Sum(concatenated), Pair(a, b))
}

func TestPairLevelMatchesPair(t *testing.T) {
	inputs := make([]Digest, 10)
	for index := range inputs {
		inputs[index] = Sum([]byte{byte(index)})
	}

	outputs := make([]Digest, 5)
	require.NoError(t, PairLevel(outputs, inputs))
	for index := range outputs {
		assert.Equal(t, Pair(inputs[2*index], inputs[2*index+1]), outputs[index])
	}
}

func TestPairLevelRejectsMismatchedLengths(t *testing.T) {
	assert.Error(t, PairLevel(make([]Digest, 2), make([]Digest, 3)))
	assert.NoError(t, PairLevel(nil, nil))
}

func TestFromHex(t *testing.T) {
	parsed, err := FromHex(aHex)
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte("a")), parsed)

	upper, err := FromHex("  " + strings.ToUpper(aHex) + "\n")
	require.NoError(t, err)
	assert.Equal(t, parsed, upper)

	_, err = FromHex(aHex[:62])
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = FromHex(strings.Repeat("zz", Size))
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestFromBytes(t *testing.T) {
	a := Sum([]byte("a"))
	parsed, err := FromBytes(a.Bytes())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = FromBytes(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDigestJSON(t *testing.T) {
	type envelope struct {
		Root Digest `json:"root"`
	}
	encoded, err := json.Marshal(envelope{Root: Sum([]byte("a"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"`+aHex+`"}`, string(encoded))

	var decoded envelope
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, Sum([]byte("a")), decoded.Root)

	assert.Error(t, json.Unmarshal([]byte(`{"root":"abc"}`), &decoded))
	assert.True(t, Digest{}.IsZero())
}
