package anchor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/mirror"
)

// Mirror nodes cap page size at 100.
const chunkWindowLimit = 100

type assembledMessage struct {
	payload []byte
	first   mirror.TopicMessage
}

func isChunked(message mirror.TopicMessage) bool {
	return message.ChunkInfo != nil && message.ChunkInfo.Total > 1
}

// fetchPayload returns the full payload behind message, reading the
// neighbouring chunks from the mirror node when the message is one chunk of
// a larger submission. Other messages may be interleaved between chunks, so
// the search scans up to a page in each direction that can hold one.
func (c *Client) fetchPayload(ctx context.Context, topicID string, message mirror.TopicMessage) (assembledMessage, error) {
	if !isChunked(message) {
		payload, err := mirror.DecodeMessageData(message)
		if err != nil {
			return assembledMessage{}, err
		}
		return assembledMessage{payload: payload, first: message}, nil
	}

	candidates := []mirror.TopicMessage{message}
	if message.ChunkInfo.Number > 1 {
		earlier, err := c.mirrorClient.GetTopicMessages(ctx, topicID, mirror.MessageQueryOptions{
			SequenceNumber: fmt.Sprintf("lt:%d", message.SequenceNumber),
			Limit:          chunkWindowLimit,
			Order:          "desc",
			MaxPages:       1,
		})
		if err != nil {
			return assembledMessage{}, err
		}
		candidates = append(candidates, earlier...)
	}
	if message.ChunkInfo.Number < message.ChunkInfo.Total {
		later, err := c.mirrorClient.GetTopicMessages(ctx, topicID, mirror.MessageQueryOptions{
			SequenceNumber: fmt.Sprintf("gt:%d", message.SequenceNumber),
			Limit:          chunkWindowLimit,
			Order:          "asc",
			MaxPages:       1,
		})
		if err != nil {
			return assembledMessage{}, err
		}
		candidates = append(candidates, later...)
	}
	return assembleChunks(message, candidates)
}

// assembleChunks joins the chunks in candidates that belong to the same
// submission as message.
func assembleChunks(message mirror.TopicMessage, candidates []mirror.TopicMessage) (assembledMessage, error) {
	transactionID := extractChunkTransactionID(message.ChunkInfo.InitialTransactionID)
	if transactionID == "" {
		return assembledMessage{}, fmt.Errorf(
			"chunked message at sequence %d is missing its initial transaction ID",
			message.SequenceNumber,
		)
	}

	total := message.ChunkInfo.Total
	chunks := map[int]mirror.TopicMessage{}
	for _, candidate := range candidates {
		if !isChunked(candidate) || candidate.ChunkInfo.Total != total {
			continue
		}
		if extractChunkTransactionID(candidate.ChunkInfo.InitialTransactionID) != transactionID {
			continue
		}
		if candidate.ChunkInfo.Number <= 0 || candidate.ChunkInfo.Number > total {
			continue
		}
		chunks[candidate.ChunkInfo.Number] = candidate
	}

	if len(chunks) != total {
		return assembledMessage{}, fmt.Errorf(
			"chunked message %s incomplete: expected %d chunks, found %d",
			transactionID,
			total,
			len(chunks),
		)
	}

	numbers := make([]int, 0, len(chunks))
	for number := range chunks {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	combined := make([]byte, 0, total*MaxMessageBytes)
	for _, number := range numbers {
		part, err := mirror.DecodeMessageData(chunks[number])
		if err != nil {
			return assembledMessage{}, err
		}
		combined = append(combined, part...)
	}

	return assembledMessage{payload: combined, first: chunks[1]}, nil
}

func extractChunkTransactionID(initialTransactionID any) string {
	switch typed := initialTransactionID.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		accountID, _ := typed["account_id"].(string)
		validStart, _ := typed["transaction_valid_start"].(string)
		if strings.TrimSpace(validStart) == "" {
			validStart, _ = typed["valid_start_timestamp"].(string)
		}
		if strings.TrimSpace(accountID) != "" && strings.TrimSpace(validStart) != "" {
			return accountID + "@" + validStart
		}
	}

	return ""
}
