package mirror

// TopicInfo is the subset of /topics/{id} the anchor tooling reads.
type TopicInfo struct {
	TopicID          string         `json:"topic_id"`
	Memo             string         `json:"memo"`
	AdminKey         map[string]any `json:"admin_key"`
	SubmitKey        map[string]any `json:"submit_key"`
	CreatedTimestamp string         `json:"created_timestamp"`
	Deleted          bool           `json:"deleted"`
}

type TopicMessage struct {
	TopicID            string     `json:"topic_id"`
	SequenceNumber     int64      `json:"sequence_number"`
	ConsensusTimestamp string     `json:"consensus_timestamp"`
	PayerAccountID     string     `json:"payer_account_id"`
	Message            string     `json:"message"`
	RunningHash        string     `json:"running_hash"`
	ChunkInfo          *ChunkInfo `json:"chunk_info,omitempty"`
}

// ChunkInfo is present on messages submitted in more than one chunk.
// InitialTransactionID is either a string or an object, depending on the
// mirror node version.
type ChunkInfo struct {
	InitialTransactionID any `json:"initial_transaction_id,omitempty"`
	Number               int `json:"number,omitempty"`
	Total                int `json:"total,omitempty"`
}

type topicMessagesResponse struct {
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
	Messages []TopicMessage `json:"messages"`
}

type Transaction struct {
	TransactionID      string  `json:"transaction_id"`
	ConsensusTimestamp string  `json:"consensus_timestamp"`
	EntityID           *string `json:"entity_id"`
	MemoBase64         string  `json:"memo_base64"`
	Name               string  `json:"name"`
	Result             string  `json:"result"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}
