package anchor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/mirror"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/rs/zerolog"
)

type Client struct {
	hederaClient   *hedera.Client
	mirrorClient   *mirror.Client
	operatorKey    *hedera.PrivateKey
	network        string
	logger         zerolog.Logger
	submitOverride submitFunc
}

type submitFunc func(ctx context.Context, topicID hedera.TopicID, payload []byte, options PublishOptions) (PublishResult, error)

// NewClient creates a new Client. Without operator credentials the client
// can still read anchors; CreateAnchorTopic and PublishEnvelope return
// ErrOperatorRequired.
func NewClient(config ClientConfig) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network:    network,
		BaseURL:    config.MirrorBaseURL,
		APIKey:     config.MirrorAPIKey,
		HTTPClient: config.HTTPClient,
		Logger:     config.Logger,
	})
	if err != nil {
		return nil, err
	}

	client := &Client{
		mirrorClient: mirrorClient,
		network:      network,
		logger:       config.Logger,
	}

	accountID := strings.TrimSpace(config.OperatorAccountID)
	privateKey := strings.TrimSpace(config.OperatorPrivateKey)
	if accountID == "" && privateKey == "" {
		return client, nil
	}
	if accountID == "" {
		return nil, fmt.Errorf("operator account ID is required")
	}
	if privateKey == "" {
		return nil, fmt.Errorf("operator private key is required")
	}

	operatorID, err := hedera.AccountIDFromString(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}
	operatorKey, err := shared.ParsePrivateKeyWithType(privateKey, config.OperatorKeyType)
	if err != nil {
		return nil, err
	}

	hederaClient, err := shared.NewHederaClient(network)
	if err != nil {
		return nil, err
	}
	hederaClient.SetOperator(operatorID, operatorKey)

	client.hederaClient = hederaClient
	client.operatorKey = &operatorKey
	return client, nil
}

// MirrorClient returns the configured mirror node client.
func (c *Client) MirrorClient() *mirror.Client {
	return c.mirrorClient
}

func (c *Client) Network() string {
	return c.network
}

// Close releases the consensus node connections, if any.
func (c *Client) Close() error {
	if c.hederaClient == nil {
		return nil
	}
	return c.hederaClient.Close()
}

// CreateAnchorTopic creates a topic tagged with BuildTopicMemo.
func (c *Client) CreateAnchorTopic(ctx context.Context, options CreateTopicOptions) (CreateTopicResult, error) {
	if c.hederaClient == nil {
		return CreateTopicResult{}, ErrOperatorRequired
	}
	if err := ctx.Err(); err != nil {
		return CreateTopicResult{}, err
	}

	topicMemo := strings.TrimSpace(options.Memo)
	if topicMemo == "" {
		topicMemo = BuildTopicMemo()
	}
	transaction := hedera.NewTopicCreateTransaction().SetTopicMemo(topicMemo)

	adminKey, err := c.resolvePublicKey(options.AdminKey, options.UseOperatorAsAdmin)
	if err != nil {
		return CreateTopicResult{}, err
	}
	if adminKey != nil {
		transaction.SetAdminKey(*adminKey)
	}

	submitKey, err := c.resolvePublicKey(options.SubmitKey, options.UseOperatorAsSubmit)
	if err != nil {
		return CreateTopicResult{}, err
	}
	if submitKey != nil {
		transaction.SetSubmitKey(*submitKey)
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return CreateTopicResult{}, fmt.Errorf("failed to create anchor topic: %w", err)
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return CreateTopicResult{}, fmt.Errorf("failed to get create topic receipt: %w", err)
	}
	if receipt.TopicID == nil {
		return CreateTopicResult{}, fmt.Errorf("create topic receipt did not include topic ID")
	}

	result := CreateTopicResult{
		TopicID:       receipt.TopicID.String(),
		TransactionID: response.TransactionID.String(),
	}
	c.logger.Info().
		Str("topic_id", result.TopicID).
		Str("transaction_id", result.TransactionID).
		Msg("created anchor topic")
	return result, nil
}

// PublishEnvelope validates envelope and submits it to topicID.
func (c *Client) PublishEnvelope(
	ctx context.Context,
	topicID string,
	envelope Envelope,
	options PublishOptions,
) (PublishResult, error) {
	payload, err := MarshalEnvelope(envelope)
	if err != nil {
		return PublishResult{}, err
	}
	if err := CheckSize(payload, options.AllowChunking); err != nil {
		return PublishResult{}, err
	}
	if len(payload) > MaxMessageBytes {
		c.logger.Warn().Int("bytes", len(payload)).Msg("anchor envelope will be chunked")
	}

	topic, err := hedera.TopicIDFromString(strings.TrimSpace(topicID))
	if err != nil {
		return PublishResult{}, fmt.Errorf("invalid topic ID %q: %w", topicID, err)
	}

	if options.TransactionMemo == "" {
		options.TransactionMemo = BuildTransactionMemo(envelope.MerkleRoot)
	}
	if options.MaxChunks == 0 {
		options.MaxChunks = defaultMaxChunks
	}

	submit := c.submit
	if c.submitOverride != nil {
		submit = c.submitOverride
	}
	result, err := submit(ctx, topic, payload, options)
	if err != nil {
		return PublishResult{}, err
	}
	result.PayloadBytes = len(payload)

	c.logger.Info().
		Str("topic_id", topic.String()).
		Str("transaction_id", result.TransactionID).
		Int64("sequence", result.SequenceNumber).
		Str("merkle_root", envelope.MerkleRoot).
		Msg("published anchor")
	return result, nil
}

func (c *Client) submit(
	ctx context.Context,
	topic hedera.TopicID,
	payload []byte,
	options PublishOptions,
) (PublishResult, error) {
	if c.hederaClient == nil {
		return PublishResult{}, ErrOperatorRequired
	}
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}

	response, err := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topic).
		SetMessage(payload).
		SetMaxChunks(options.MaxChunks).
		SetTransactionMemo(options.TransactionMemo).
		Execute(c.hederaClient)
	if err != nil {
		return PublishResult{}, fmt.Errorf("failed to publish anchor message: %w", err)
	}

	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return PublishResult{}, fmt.Errorf("failed to get anchor receipt: %w", err)
	}

	return PublishResult{
		TransactionID:  response.TransactionID.String(),
		SequenceNumber: int64(receipt.TopicSequenceNumber),
		Status:         receipt.Status.String(),
	}, nil
}

// GetLatestAnchor returns the most recent submission on the topic. It fails
// if that submission is not a valid envelope.
func (c *Client) GetLatestAnchor(ctx context.Context, topicID string) (Record, error) {
	message, err := c.mirrorClient.GetLatestTopicMessage(ctx, topicID)
	if err != nil {
		return Record{}, err
	}
	assembled, err := c.fetchPayload(ctx, topicID, *message)
	if err != nil {
		return Record{}, fmt.Errorf("sequence %d: %w", message.SequenceNumber, errors.Join(ErrInvalidEnvelope, err))
	}
	return newRecord(topicID, assembled)
}

// GetAnchorBySequence returns the envelope at sequence. For a chunked
// submission any of its chunk sequence numbers resolves to the whole
// envelope.
func (c *Client) GetAnchorBySequence(ctx context.Context, topicID string, sequence int64) (Record, error) {
	message, err := c.mirrorClient.GetTopicMessageBySequence(ctx, topicID, sequence)
	if err != nil {
		return Record{}, err
	}
	assembled, err := c.fetchPayload(ctx, topicID, *message)
	if err != nil {
		return Record{}, fmt.Errorf("sequence %d: %w", sequence, errors.Join(ErrInvalidEnvelope, err))
	}
	return newRecord(topicID, assembled)
}

// GetAnchors returns every valid envelope on the topic in consensus order.
// Messages that are not envelopes are skipped. Chunked submissions are
// reported once, at the sequence number of their first chunk.
func (c *Client) GetAnchors(ctx context.Context, topicID string) ([]Record, error) {
	messages, err := c.mirrorClient.GetTopicMessages(ctx, topicID, mirror.MessageQueryOptions{
		Order: "asc",
	})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(messages))
	for _, message := range messages {
		var assembled assembledMessage
		if isChunked(message) {
			if message.ChunkInfo.Number != 1 {
				continue
			}
			assembled, err = assembleChunks(message, messages)
		} else {
			assembled, err = c.fetchPayload(ctx, topicID, message)
		}
		if err == nil {
			var record Record
			record, err = newRecord(topicID, assembled)
			if err == nil {
				records = append(records, record)
				continue
			}
		}
		c.logger.Debug().
			Int64("sequence", message.SequenceNumber).
			Err(err).
			Msg("skipping topic message")
	}
	return records, nil
}

// DescribeTopic returns topic metadata and, when the memo was written by
// BuildTopicMemo, its parsed form.
func (c *Client) DescribeTopic(ctx context.Context, topicID string) (TopicDescription, error) {
	info, err := c.mirrorClient.GetTopicInfo(ctx, topicID)
	if err != nil {
		return TopicDescription{}, err
	}

	description := TopicDescription{
		TopicID:          info.TopicID,
		Memo:             info.Memo,
		CreatedTimestamp: info.CreatedTimestamp,
		Deleted:          info.Deleted,
	}
	if memo, ok := ParseTopicMemo(info.Memo); ok {
		description.AnchorMemo = memo
	}
	return description, nil
}

func newRecord(topicID string, assembled assembledMessage) (Record, error) {
	envelope, err := ParseEnvelope(assembled.payload)
	if err != nil {
		return Record{}, fmt.Errorf("sequence %d: %w", assembled.first.SequenceNumber, err)
	}

	resolvedTopicID := strings.TrimSpace(assembled.first.TopicID)
	if resolvedTopicID == "" {
		resolvedTopicID = strings.TrimSpace(topicID)
	}
	return Record{
		TopicID:            resolvedTopicID,
		SequenceNumber:     assembled.first.SequenceNumber,
		ConsensusTimestamp: assembled.first.ConsensusTimestamp,
		PayerAccountID:     assembled.first.PayerAccountID,
		Envelope:           envelope,
	}, nil
}

func (c *Client) resolvePublicKey(rawKey string, useOperator bool) (*hedera.PublicKey, error) {
	if useOperator {
		publicKey := c.operatorKey.PublicKey()
		return &publicKey, nil
	}

	trimmed := strings.TrimSpace(rawKey)
	if trimmed == "" {
		return nil, nil
	}

	publicKey, publicErr := hedera.PublicKeyFromString(trimmed)
	if publicErr == nil {
		return &publicKey, nil
	}

	privateKey, privateErr := shared.ParsePrivateKey(trimmed)
	if privateErr != nil {
		return nil, fmt.Errorf("failed to parse key as public (%v) or private (%v)", publicErr, privateErr)
	}

	derivedKey := privateKey.PublicKey()
	return &derivedKey, nil
}

// LookupTransaction reports the consensus result of a submitted transaction,
// such as the one returned by PublishEnvelope.
func (c *Client) LookupTransaction(ctx context.Context, transactionID string) (TransactionStatus, error) {
	transaction, err := c.mirrorClient.GetTransaction(ctx, transactionID)
	if err != nil {
		return TransactionStatus{}, err
	}

	status := TransactionStatus{TransactionID: strings.TrimSpace(transactionID)}
	if transaction == nil {
		return status, nil
	}
	status.Found = true
	status.Result = transaction.Result
	status.ConsensusTimestamp = transaction.ConsensusTimestamp
	if memo, decodeErr := base64.StdEncoding.DecodeString(transaction.MemoBase64); decodeErr == nil {
		status.Memo = string(memo)
	}
	return status, nil
}
