package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/shared"
	"github.com/rs/zerolog"
)

// ErrNoMessages is returned when a topic has no message matching a query.
var ErrNoMessages = errors.New("no messages found for this topic")

// StatusError reports a non-2xx mirror node response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mirror node request failed with status %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
	Logger     zerolog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
	logger     zerolog.Logger
}

// MessageQueryOptions filters topic messages. MaxPages bounds how many
// "links.next" pages are followed; zero follows all of them.
type MessageQueryOptions struct {
	SequenceNumber string
	Limit          int
	Order          string
	MaxPages       int
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = shared.DefaultMirrorBaseURL(network)
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid mirror base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid mirror base URL: host is required")
	}
	baseURL = strings.TrimRight(parsedBaseURL.String(), "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
		logger:     config.Logger,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetTopicInfo returns topic metadata, including its memo.
func (c *Client) GetTopicInfo(ctx context.Context, topicID string) (TopicInfo, error) {
	var topicInfo TopicInfo
	normalizedTopicID := strings.TrimSpace(topicID)
	if normalizedTopicID == "" {
		return topicInfo, fmt.Errorf("topic ID is required")
	}

	path := fmt.Sprintf("/api/v1/topics/%s", url.PathEscape(normalizedTopicID))
	if err := c.getJSON(ctx, path, &topicInfo); err != nil {
		return topicInfo, err
	}

	return topicInfo, nil
}

// GetTopicMessages returns messages for a topic, following pagination links
// up to options.MaxPages.
func (c *Client) GetTopicMessages(
	ctx context.Context,
	topicID string,
	options MessageQueryOptions,
) ([]TopicMessage, error) {
	normalizedTopicID := strings.TrimSpace(topicID)
	if normalizedTopicID == "" {
		return nil, fmt.Errorf("topic ID is required")
	}

	values := url.Values{}
	if options.SequenceNumber != "" {
		values.Set("sequencenumber", options.SequenceNumber)
	}
	if options.Limit > 0 {
		values.Set("limit", fmt.Sprintf("%d", options.Limit))
	}
	if options.Order != "" {
		values.Set("order", options.Order)
	}

	endpoint := fmt.Sprintf("/api/v1/topics/%s/messages", url.PathEscape(normalizedTopicID))
	if encoded := values.Encode(); encoded != "" {
		endpoint = fmt.Sprintf("%s?%s", endpoint, encoded)
	}

	result := make([]TopicMessage, 0)
	next := endpoint

	for pages := 0; next != ""; pages++ {
		if options.MaxPages > 0 && pages >= options.MaxPages {
			break
		}

		var page topicMessagesResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}

		result = append(result, page.Messages...)
		next = page.Links.Next
	}

	return result, nil
}

// GetLatestTopicMessage returns the most recent message on a topic, or
// ErrNoMessages when the topic is empty.
func (c *Client) GetLatestTopicMessage(ctx context.Context, topicID string) (*TopicMessage, error) {
	messages, err := c.GetTopicMessages(ctx, topicID, MessageQueryOptions{
		Limit:    1,
		Order:    "desc",
		MaxPages: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("topic %s: %w", strings.TrimSpace(topicID), ErrNoMessages)
	}

	return &messages[0], nil
}

// GetTopicMessageBySequence returns the message with the given sequence
// number, or ErrNoMessages when it does not exist.
func (c *Client) GetTopicMessageBySequence(
	ctx context.Context,
	topicID string,
	sequence int64,
) (*TopicMessage, error) {
	if sequence <= 0 {
		return nil, fmt.Errorf("sequence must be positive")
	}

	messages, err := c.GetTopicMessages(ctx, topicID, MessageQueryOptions{
		SequenceNumber: fmt.Sprintf("eq:%d", sequence),
		Limit:          1,
		Order:          "asc",
		MaxPages:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("topic %s sequence %d: %w", strings.TrimSpace(topicID), sequence, ErrNoMessages)
	}

	return &messages[0], nil
}

// DecodeMessageData returns the raw bytes of a base64 message payload.
func DecodeMessageData(message TopicMessage) ([]byte, error) {
	if strings.TrimSpace(message.Message) == "" {
		return nil, fmt.Errorf("message payload is empty")
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(message.Message))
	if err != nil {
		return nil, fmt.Errorf("failed to decode topic message payload: %w", err)
	}
	return payload, nil
}

func DecodeMessageJSON[T any](message TopicMessage, target *T) error {
	payload, err := DecodeMessageData(message)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("failed to decode topic message JSON: %w", err)
	}

	return nil
}

// GetTransaction returns a transaction record, or nil when the mirror node
// has not indexed it yet.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	normalized := strings.TrimSpace(transactionID)
	if normalized == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	var response transactionsResponse
	path := fmt.Sprintf("/api/v1/transactions/%s", url.PathEscape(MirrorTransactionID(normalized)))
	if err := c.getJSON(ctx, path, &response); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	if len(response.Transactions) == 0 {
		return nil, nil
	}

	return &response.Transactions[0], nil
}

// MirrorTransactionID converts an SDK transaction ID ("0.0.5@1700000000.123")
// into the mirror node form ("0.0.5-1700000000-123"). Other inputs are
// returned unchanged.
func MirrorTransactionID(transactionID string) string {
	account, validStart, found := strings.Cut(strings.TrimSpace(transactionID), "@")
	if !found {
		return transactionID
	}
	// Scheduled and nonce suffixes are not part of the mirror path.
	if index := strings.IndexAny(validStart, "?/"); index >= 0 {
		validStart = validStart[:index]
	}
	return account + "-" + strings.Replace(validStart, ".", "-", 1)
}

func (c *Client) getJSON(ctx context.Context, pathOrURL string, target any) error {
	requestURL := c.resolveURL(pathOrURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	c.logger.Debug().Str("url", requestURL).Msg("mirror node request")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mirror node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read mirror node response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &StatusError{
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode mirror node response: %w", err)
	}

	return nil
}

func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}

	path := pathOrURL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}
