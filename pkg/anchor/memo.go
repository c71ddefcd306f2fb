package anchor

import (
	"fmt"
	"strings"
)

const memoPrefix = "hcs-merkle-anchor"

// BuildTopicMemo returns the memo set on anchor topics.
func BuildTopicMemo() string {
	return fmt.Sprintf("%s:%s:%s", memoPrefix, SchemaVersion, HashAlgorithm)
}

func ParseTopicMemo(memo string) (*TopicMemo, bool) {
	parts := strings.Split(strings.TrimSpace(memo), ":")
	if len(parts) != 3 {
		return nil, false
	}
	if parts[0] != memoPrefix || parts[1] == "" || parts[2] == "" {
		return nil, false
	}

	return &TopicMemo{
		SchemaVersion: parts[1],
		HashAlgorithm: parts[2],
	}, true
}

// BuildTransactionMemo tags a submission with a short root prefix so it can
// be spotted in an explorer.
func BuildTransactionMemo(merkleRootHex string) string {
	root := strings.ToLower(strings.TrimSpace(merkleRootHex))
	if len(root) > 16 {
		root = root[:16]
	}
	if root == "" {
		return memoPrefix + ":anchor"
	}
	return fmt.Sprintf("%s:anchor:%s", memoPrefix, root)
}
