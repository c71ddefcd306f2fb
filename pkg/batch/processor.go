package batch

import (
	"fmt"
	"runtime"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/merkle"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Workers bounds concurrent leaf hashing. Zero uses GOMAXPROCS.
	Workers       int
	IncludeProofs bool
	Logger        zerolog.Logger
}

type Processor struct {
	workers       int
	includeProofs bool
	logger        zerolog.Logger
}

type RecordProof struct {
	Index       int          `json:"index"`
	LeafHashHex string       `json:"leafHashHex"`
	Proof       merkle.Proof `json:"proof"`
}

type Result struct {
	Root        digest.Digest   `json:"merkleRoot"`
	RecordCount int             `json:"recordCount"`
	Leaves      []digest.Digest `json:"leaves"`
	Proofs      []RecordProof   `json:"proofs,omitempty"`
}

// RootHex returns the lowercase hex root.
func (r *Result) RootHex() string {
	return r.Root.Hex()
}

// RecordError ties a canonicalization failure to its position in the batch.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewProcessor creates a new Processor.
func NewProcessor(config Config) *Processor {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Processor{
		workers:       workers,
		includeProofs: config.IncludeProofs,
		logger:        config.Logger,
	}
}

// LeafDigest canonicalizes and hashes a single record.
func LeafDigest(record canonical.Value) (digest.Digest, error) {
	encoded, err := canonical.Canonicalize(record)
	if err != nil {
		return digest.Digest{}, err
	}
	return digest.Sum(encoded), nil
}

// Leaves hashes every record. leaves[i] always belongs to records[i]
// regardless of which worker produced it.
func (p *Processor) Leaves(records []canonical.Value) ([]digest.Digest, error) {
	leaves := make([]digest.Digest, len(records))

	var group errgroup.Group
	group.SetLimit(p.workers)
	for index := range records {
		group.Go(func() error {
			leaf, err := LeafDigest(records[index])
			if err != nil {
				return &RecordError{Index: index, Err: err}
			}
			leaves[index] = leaf
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return leaves, nil
}

// Process computes leaves, root and, when enabled, every record's proof.
func (p *Processor) Process(records []canonical.Value) (*Result, error) {
	if len(records) == 0 {
		return nil, merkle.ErrEmptyBatch
	}

	leaves, err := p.Leaves(records)
	if err != nil {
		return nil, err
	}

	root, err := merkle.ComputeRoot(leaves)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Root:        root,
		RecordCount: len(records),
		Leaves:      leaves,
	}

	if p.includeProofs {
		proofs, err := merkle.AllProofs(leaves)
		if err != nil {
			return nil, err
		}
		result.Proofs = make([]RecordProof, len(proofs))
		for index, proof := range proofs {
			result.Proofs[index] = RecordProof{
				Index:       index,
				LeafHashHex: leaves[index].Hex(),
				Proof:       proof,
			}
		}
	}

	p.logger.Debug().
		Int("records", len(records)).
		Int("workers", p.workers).
		Bool("proofs", p.includeProofs).
		Str("root", root.Hex()).
		Msg("processed batch")

	return result, nil
}

// ProcessAny converts Go values with canonical.FromAny and processes them.
func (p *Processor) ProcessAny(records []any) (*Result, error) {
	values := make([]canonical.Value, len(records))
	for index, record := range records {
		value, err := canonical.FromAny(record)
		if err != nil {
			return nil, &RecordError{Index: index, Err: err}
		}
		values[index] = value
	}
	return p.Process(values)
}

// Proof returns a single record's proof from a processed result's leaves.
func (r *Result) Proof(index int) (RecordProof, error) {
	proof, err := merkle.GetProof(r.Leaves, index)
	if err != nil {
		return RecordProof{}, err
	}
	return RecordProof{
		Index:       index,
		LeafHashHex: r.Leaves[index].Hex(),
		Proof:       proof,
	}, nil
}

// Verify checks the proof against root.
func (rp RecordProof) Verify(root digest.Digest) (bool, error) {
	return merkle.VerifyProofHex(rp.LeafHashHex, root.Hex(), rp.Proof)
}
