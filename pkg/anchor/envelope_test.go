package anchor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/batch"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/merkle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

func sampleResult(t *testing.T, count int) *batch.Result {
	t.Helper()
	records := make([]any, count)
	for index := range records {
		records[index] = map[string]any{"id": index, "type": "PAYMENT"}
	}
	result, err := batch.NewProcessor(batch.Config{IncludeProofs: true}).ProcessAny(records)
	require.NoError(t, err)
	return result
}

func sampleEnvelope(t *testing.T) Envelope {
	t.Helper()
	envelope, err := NewEnvelope(sampleResult(t, 10), EnvelopeOptions{
		BatchFile: "data/batch-10.json",
		BatchID:   "6f1c1b7e-8d7a-4f57-9a55-0d8a0a1b2c3d",
		CreatedAt: fixedTime,
	})
	require.NoError(t, err)
	return envelope
}

func TestNewEnvelope(t *testing.T) {
	result := sampleResult(t, 10)
	envelope, err := NewEnvelope(result, EnvelopeOptions{BatchFile: " data/batch-10.json ", CreatedAt: fixedTime})
	require.NoError(t, err)

	assert.Equal(t, Schema, envelope.Schema)
	assert.Equal(t, SchemaVersion, envelope.SchemaVersion)
	assert.Equal(t, DefaultDatasetVersion, envelope.DatasetVersion)
	assert.Equal(t, "data/batch-10.json", envelope.BatchFile)
	assert.Equal(t, 10, envelope.RecordCount)
	assert.Equal(t, HashAlgorithm, envelope.HashAlgorithm)
	assert.Equal(t, canonical.RuleID, envelope.Canonicalization)
	assert.Equal(t, merkle.RuleID, envelope.MerkleRule)
	assert.Equal(t, result.RootHex(), envelope.MerkleRoot)
	assert.Equal(t, "2025-01-01T12:00:00.000Z", envelope.CreatedAt)

	_, err = uuid.Parse(envelope.BatchID)
	assert.NoError(t, err)
}

func TestNewEnvelopeRejectsEmptyBatch(t *testing.T) {
	_, err := NewEnvelope(&batch.Result{}, EnvelopeOptions{})
	assert.ErrorIs(t, err, merkle.ErrEmptyBatch)

	_, err = NewEnvelope(nil, EnvelopeOptions{})
	assert.ErrorIs(t, err, merkle.ErrEmptyBatch)
}

func TestValidateEnvelope(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*Envelope)
	}{
		{"schema", func(e *Envelope) { e.Schema = "other" }},
		{"schemaVersion", func(e *Envelope) { e.SchemaVersion = "2" }},
		{"datasetVersion", func(e *Envelope) { e.DatasetVersion = " " }},
		{"recordCount", func(e *Envelope) { e.RecordCount = 0 }},
		{"hashAlg", func(e *Envelope) { e.HashAlgorithm = "sha512" }},
		{"canonicalization", func(e *Envelope) { e.Canonicalization = "jcs" }},
		{"merkleRule", func(e *Envelope) { e.MerkleRule = "rfc6962" }},
		{"merkleRoot", func(e *Envelope) { e.MerkleRoot = "abc" }},
		{"createdAt", func(e *Envelope) { e.CreatedAt = "yesterday" }},
		{"batchId", func(e *Envelope) { e.BatchID = "batch-1" }},
		{"signature.alg", func(e *Envelope) { e.Signature = &Signature{Algorithm: "rsa"} }},
		{"signature", func(e *Envelope) { e.Signature = &Signature{Algorithm: SignatureAlgorithm} }},
	}
	for _, tc := range cases {
		envelope := sampleEnvelope(t)
		tc.mutate(&envelope)

		err := ValidateEnvelope(envelope)
		require.ErrorIs(t, err, ErrInvalidEnvelope, tc.field)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, tc.field)
		assert.Equal(t, tc.field, validationErr.Field)
	}
}

func TestValidateEnvelopeAcceptsMinimalFields(t *testing.T) {
	minimal := Envelope{
		Schema:         Schema,
		SchemaVersion:  SchemaVersion,
		DatasetVersion: "v1",
		BatchFile:      "data/batch-10.json",
		RecordCount:    10,
		HashAlgorithm:  HashAlgorithm,
		MerkleRoot:     strings.Repeat("AB", 32),
		CreatedAt:      "2025-01-01T12:00:00Z",
	}
	assert.NoError(t, ValidateEnvelope(minimal))
}

func TestMarshalAndParseEnvelope(t *testing.T) {
	envelope := sampleEnvelope(t)

	payload, err := MarshalEnvelope(envelope)
	require.NoError(t, err)
	assert.Less(t, len(payload), MaxMessageBytes)
	assert.NotContains(t, string(payload), "signature")
	assert.Contains(t, string(payload), `"hashAlg":"sha256"`)

	parsed, err := ParseEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, envelope, parsed)

	_, err = ParseEnvelope([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidEnvelope)

	_, err = MarshalEnvelope(Envelope{})
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
}

func TestParseEnvelopeFromLegacyProducer(t *testing.T) {
	payload := `{"schema":"hcs.merkleRootAnchor","schemaVersion":"1","datasetVersion":"v1",` +
		`"batchFile":"data/batch-10.json","recordCount":10,"hashAlg":"sha256",` +
		`"merkleRoot":"` + strings.Repeat("0f", 32) + `","createdAt":"2025-01-01T12:00:00.000Z"}`

	envelope, err := ParseEnvelope([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 10, envelope.RecordCount)
	assert.Empty(t, envelope.BatchID)
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(make([]byte, MaxMessageBytes), false))
	assert.ErrorIs(t, CheckSize(make([]byte, MaxMessageBytes+1), false), ErrEnvelopeTooLarge)
	assert.NoError(t, CheckSize(make([]byte, MaxMessageBytes+1), true))
}

func TestVerifyRecord(t *testing.T) {
	result := sampleResult(t, 7)
	envelope, err := NewEnvelope(result, EnvelopeOptions{CreatedAt: fixedTime})
	require.NoError(t, err)

	for _, recordProof := range result.Proofs {
		ok, err := VerifyRecord(envelope, recordProof.LeafHashHex, recordProof.Proof)
		require.NoError(t, err)
		assert.True(t, ok, "index %d", recordProof.Index)
	}

	ok, err := VerifyRecord(envelope, result.Proofs[1].LeafHashHex, result.Proofs[2].Proof)
	require.NoError(t, err)
	assert.False(t, ok)

	envelope.MerkleRule = "rfc6962"
	_, err = VerifyRecord(envelope, result.Proofs[0].LeafHashHex, result.Proofs[0].Proof)
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
}

func TestEnvelopeRoot(t *testing.T) {
	result := sampleResult(t, 3)
	envelope, err := NewEnvelope(result, EnvelopeOptions{CreatedAt: fixedTime})
	require.NoError(t, err)

	root, err := envelope.Root()
	require.NoError(t, err)
	assert.Equal(t, result.Root, root)

	encoded, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), result.RootHex())
}
