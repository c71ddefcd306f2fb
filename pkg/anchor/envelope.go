package anchor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/batch"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/merkle"
)

// createdAtLayout matches JavaScript's Date.prototype.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

type EnvelopeOptions struct {
	DatasetVersion string
	BatchFile      string
	// BatchID defaults to a random UUID.
	BatchID   string
	CreatedAt time.Time
}

// NewEnvelope describes a processed batch.
func NewEnvelope(result *batch.Result, options EnvelopeOptions) (Envelope, error) {
	if result == nil || result.RecordCount == 0 {
		return Envelope{}, fmt.Errorf("cannot anchor an empty batch: %w", merkle.ErrEmptyBatch)
	}

	datasetVersion := strings.TrimSpace(options.DatasetVersion)
	if datasetVersion == "" {
		datasetVersion = DefaultDatasetVersion
	}
	batchID := strings.TrimSpace(options.BatchID)
	if batchID == "" {
		batchID = uuid.NewString()
	}
	createdAt := options.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	envelope := Envelope{
		Schema:           Schema,
		SchemaVersion:    SchemaVersion,
		DatasetVersion:   datasetVersion,
		BatchFile:        strings.TrimSpace(options.BatchFile),
		BatchID:          batchID,
		RecordCount:      result.RecordCount,
		HashAlgorithm:    HashAlgorithm,
		Canonicalization: canonical.RuleID,
		MerkleRule:       merkle.RuleID,
		MerkleRoot:       result.RootHex(),
		CreatedAt:        createdAt.UTC().Format(createdAtLayout),
	}
	return envelope, ValidateEnvelope(envelope)
}

// ValidateEnvelope checks the fields a verifier depends on. Optional rule
// identifiers, when present, must name rules this module implements.
func ValidateEnvelope(envelope Envelope) error {
	if envelope.Schema != Schema {
		return invalid("schema", "must be %s, got %q", Schema, envelope.Schema)
	}
	if envelope.SchemaVersion != SchemaVersion {
		return invalid("schemaVersion", "must be %s, got %q", SchemaVersion, envelope.SchemaVersion)
	}
	if strings.TrimSpace(envelope.DatasetVersion) == "" {
		return invalid("datasetVersion", "is required")
	}
	if envelope.RecordCount <= 0 {
		return invalid("recordCount", "must be positive, got %d", envelope.RecordCount)
	}
	if envelope.HashAlgorithm != HashAlgorithm {
		return invalid("hashAlg", "must be %s, got %q", HashAlgorithm, envelope.HashAlgorithm)
	}
	if envelope.Canonicalization != "" && envelope.Canonicalization != canonical.RuleID {
		return invalid("canonicalization", "%q is not supported", envelope.Canonicalization)
	}
	if envelope.MerkleRule != "" && envelope.MerkleRule != merkle.RuleID {
		return invalid("merkleRule", "%q is not supported", envelope.MerkleRule)
	}
	if _, err := digest.FromHex(envelope.MerkleRoot); err != nil {
		return invalid("merkleRoot", "must be 64 hex characters: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, envelope.CreatedAt); err != nil {
		return invalid("createdAt", "must be an RFC 3339 timestamp")
	}
	if envelope.BatchID != "" {
		if _, err := uuid.Parse(envelope.BatchID); err != nil {
			return invalid("batchId", "must be a UUID")
		}
	}
	if envelope.Signature != nil {
		if envelope.Signature.Algorithm != SignatureAlgorithm {
			return invalid("signature.alg", "must be %s", SignatureAlgorithm)
		}
		if strings.TrimSpace(envelope.Signature.PublicKey) == "" || strings.TrimSpace(envelope.Signature.Value) == "" {
			return invalid("signature", "requires publicKey and value")
		}
	}
	return nil
}

// MarshalEnvelope validates and encodes the envelope as compact JSON.
func MarshalEnvelope(envelope Envelope) ([]byte, error) {
	if err := ValidateEnvelope(envelope); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to encode anchor envelope: %w", err)
	}
	return payload, nil
}

// ParseEnvelope decodes and validates a topic message payload.
func ParseEnvelope(payload []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := ValidateEnvelope(envelope); err != nil {
		return Envelope{}, err
	}
	return envelope, nil
}

// CheckSize reports ErrEnvelopeTooLarge for payloads that would need more
// than one HCS chunk when chunking is not allowed.
func CheckSize(payload []byte, allowChunking bool) error {
	if len(payload) > MaxMessageBytes && !allowChunking {
		return fmt.Errorf("%w: %d bytes > %d", ErrEnvelopeTooLarge, len(payload), MaxMessageBytes)
	}
	return nil
}

// Root returns the decoded Merkle root.
func (e Envelope) Root() (digest.Digest, error) {
	return digest.FromHex(e.MerkleRoot)
}

// VerifyRecord checks that leafHex is included under the envelope's root.
func VerifyRecord(envelope Envelope, leafHex string, proof merkle.Proof) (bool, error) {
	if err := ValidateEnvelope(envelope); err != nil {
		return false, err
	}
	return merkle.VerifyProofHex(leafHex, envelope.MerkleRoot, proof)
}
