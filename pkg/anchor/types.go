package anchor

import (
	"net/http"

	"github.com/rs/zerolog"
)

const (
	Schema        = "hcs.merkleRootAnchor"
	SchemaVersion = "1"
	HashAlgorithm = "sha256"

	// MaxMessageBytes is the size of a single HCS message chunk.
	MaxMessageBytes = 1024

	DefaultDatasetVersion = "v1"
	defaultMaxChunks      = 20
)

// Envelope is the JSON document submitted to the anchor topic.
type Envelope struct {
	Schema           string     `json:"schema"`
	SchemaVersion    string     `json:"schemaVersion"`
	DatasetVersion   string     `json:"datasetVersion"`
	BatchFile        string     `json:"batchFile,omitempty"`
	BatchID          string     `json:"batchId,omitempty"`
	RecordCount      int        `json:"recordCount"`
	HashAlgorithm    string     `json:"hashAlg"`
	Canonicalization string     `json:"canonicalization,omitempty"`
	MerkleRule       string     `json:"merkleRule,omitempty"`
	MerkleRoot       string     `json:"merkleRoot"`
	CreatedAt        string     `json:"createdAt"`
	Signature        *Signature `json:"signature,omitempty"`
}

type Signature struct {
	Algorithm string `json:"alg"`
	PublicKey string `json:"publicKey"`
	Value     string `json:"value"`
}

type TopicMemo struct {
	SchemaVersion string `json:"schemaVersion"`
	HashAlgorithm string `json:"hashAlg"`
}

// Record is an envelope as observed on a topic.
type Record struct {
	TopicID            string   `json:"topicId"`
	SequenceNumber     int64    `json:"sequenceNumber"`
	ConsensusTimestamp string   `json:"consensusTimestamp"`
	PayerAccountID     string   `json:"payerAccountId,omitempty"`
	Envelope           Envelope `json:"envelope"`
}

type TopicDescription struct {
	TopicID          string     `json:"topicId"`
	Memo             string     `json:"memo"`
	AnchorMemo       *TopicMemo `json:"anchorMemo,omitempty"`
	CreatedTimestamp string     `json:"createdTimestamp"`
	Deleted          bool       `json:"deleted"`
}

type ClientConfig struct {
	OperatorAccountID  string
	OperatorPrivateKey string
	// OperatorKeyType is "ecdsa", "ed25519" or "auto".
	OperatorKeyType string
	Network         string
	MirrorBaseURL   string
	MirrorAPIKey    string
	HTTPClient      *http.Client
	Logger          zerolog.Logger
}

type CreateTopicOptions struct {
	Memo                string
	UseOperatorAsAdmin  bool
	UseOperatorAsSubmit bool
	AdminKey            string
	SubmitKey           string
}

type CreateTopicResult struct {
	TopicID       string `json:"topicId"`
	TransactionID string `json:"transactionId"`
}

// PublishOptions controls submission. Envelopes larger than MaxMessageBytes
// are rejected unless AllowChunking is set.
type PublishOptions struct {
	TransactionMemo string
	AllowChunking   bool
	MaxChunks       uint64
}

type PublishResult struct {
	TransactionID  string `json:"transactionId"`
	SequenceNumber int64  `json:"sequenceNumber"`
	Status         string `json:"status"`
	PayloadBytes   int    `json:"payloadBytes"`
}

// TransactionStatus is how the mirror node reports a submitted transaction.
// Found is false until the mirror node has indexed it.
type TransactionStatus struct {
	TransactionID      string `json:"transactionId"`
	Found              bool   `json:"found"`
	Result             string `json:"result,omitempty"`
	ConsensusTimestamp string `json:"consensusTimestamp,omitempty"`
	Memo               string `json:"memo,omitempty"`
}
