package dataset

import (
	"fmt"
	"strconv"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/batch"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/merkle"
)

// BundleEntry is what a record holder needs to prove inclusion.
type BundleEntry struct {
	LeafHashHex string       `json:"leafHashHex"`
	Proof       merkle.Proof `json:"proof"`
}

// ProofBundle maps record IDs to their proofs.
type ProofBundle map[string]BundleEntry

// RecordID returns the record's "id" string, or its index when the record
// has none.
func RecordID(record canonical.Value, index int) string {
	if object, ok := record.(canonical.Object); ok {
		switch id := object["id"].(type) {
		case canonical.String:
			return string(id)
		case canonical.Number:
			if formatted, ok := canonical.FormatNumber(float64(id)); ok {
				return formatted
			}
		}
	}
	return strconv.Itoa(index)
}

// BuildProofBundle pairs each record with its proof from result. Proofs
// missing from result are derived from its leaves.
func BuildProofBundle(records []canonical.Value, result *batch.Result) (ProofBundle, error) {
	if len(records) != result.RecordCount {
		return nil, fmt.Errorf("have %d records for a batch of %d", len(records), result.RecordCount)
	}

	bundle := make(ProofBundle, len(records))
	for index, record := range records {
		id := RecordID(record, index)
		if _, exists := bundle[id]; exists {
			return nil, fmt.Errorf("record %d: duplicate id %q", index, id)
		}

		var recordProof batch.RecordProof
		if index < len(result.Proofs) {
			recordProof = result.Proofs[index]
		} else {
			derived, err := result.Proof(index)
			if err != nil {
				return nil, err
			}
			recordProof = derived
		}

		bundle[id] = BundleEntry{LeafHashHex: recordProof.LeafHashHex, Proof: recordProof.Proof}
	}
	return bundle, nil
}

func LoadProofBundle(path string) (ProofBundle, error) {
	var bundle ProofBundle
	if err := readJSON(path, &bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Entry returns the proof for id.
func (b ProofBundle) Entry(id string) (BundleEntry, error) {
	entry, ok := b[id]
	if !ok {
		return BundleEntry{}, fmt.Errorf("record %q is not in the proof bundle", id)
	}
	return entry, nil
}
