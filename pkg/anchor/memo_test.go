package anchor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicMemoRoundTrip(t *testing.T) {
	memo := BuildTopicMemo()
	assert.Equal(t, "hcs-merkle-anchor:1:sha256", memo)

	parsed, ok := ParseTopicMemo(" " + memo + " ")
	require.True(t, ok)
	assert.Equal(t, SchemaVersion, parsed.SchemaVersion)
	assert.Equal(t, HashAlgorithm, parsed.HashAlgorithm)
}

func TestParseTopicMemoRejectsForeignMemos(t *testing.T) {
	for _, memo := range []string{
		"",
		"Merkle Anchor Verification Tutorial",
		"hcs-27:0:86400:0",
		"hcs-merkle-anchor:1",
		"hcs-merkle-anchor::sha256",
	} {
		_, ok := ParseTopicMemo(memo)
		assert.False(t, ok, memo)
	}
}

func TestBuildTransactionMemo(t *testing.T) {
	root := strings.Repeat("AB", 32)
	assert.Equal(t, "hcs-merkle-anchor:anchor:abababababababab", BuildTransactionMemo(root))
	assert.Equal(t, "hcs-merkle-anchor:anchor", BuildTransactionMemo(""))
	assert.LessOrEqual(t, len(BuildTransactionMemo(root)), 100)
}
