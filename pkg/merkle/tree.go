package merkle

import (
	"math/bits"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
)

// RuleID names the tree construction. Anchors record it so a verifier can
// reject roots built some other way.
const RuleID = "sha256-pair-duplicate-last-v1"

const RuleDescription = "SHA-256(left || right). Odd nodes duplicate last. Raw bytes concatenation."

// ComputeRoot returns the Merkle root of leaves. An empty batch has no root
// and yields ErrEmptyBatch; a single leaf is returned unchanged.
func ComputeRoot(leaves []digest.Digest) (digest.Digest, error) {
	if len(leaves) == 0 {
		return digest.Digest{}, ErrEmptyBatch
	}

	level := leaves
	for len(level) > 1 {
		next, err := nextLevel(level)
		if err != nil {
			return digest.Digest{}, err
		}
		level = next
	}
	return level[0], nil
}

// GetProof returns the inclusion proof for leaves[index]. Every level is
// derived again from the leaves, using the same pairing as ComputeRoot.
func GetProof(leaves []digest.Digest, index int) (Proof, error) {
	if index < 0 || index >= len(leaves) {
		return nil, &IndexOutOfRangeError{Index: index, Size: len(leaves)}
	}

	proof := make(Proof, 0, Depth(len(leaves)))
	level := leaves
	position := index
	for len(level) > 1 {
		proof = append(proof, siblingStep(level, position))

		next, err := nextLevel(level)
		if err != nil {
			return nil, err
		}
		level = next
		position /= 2
	}
	return proof, nil
}

// AllProofs returns the proof of every leaf, in leaf order. The levels are
// built once for the call and discarded afterwards.
func AllProofs(leaves []digest.Digest) ([]Proof, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyBatch
	}

	levels := [][]digest.Digest{leaves}
	for level := leaves; len(level) > 1; {
		next, err := nextLevel(level)
		if err != nil {
			return nil, err
		}
		levels = append(levels, next)
		level = next
	}

	depth := len(levels) - 1
	proofs := make([]Proof, len(leaves))
	for index := range leaves {
		proof := make(Proof, 0, depth)
		position := index
		for _, level := range levels[:depth] {
			proof = append(proof, siblingStep(level, position))
			position /= 2
		}
		proofs[index] = proof
	}
	return proofs, nil
}

// Depth is the number of levels above the leaves, ceil(log2(n)).
func Depth(leafCount int) int {
	if leafCount <= 1 {
		return 0
	}
	return bits.Len(uint(leafCount - 1))
}

func siblingStep(level []digest.Digest, position int) Step {
	if position%2 == 1 {
		return newStep(level[position-1], SideLeft)
	}
	if position+1 < len(level) {
		return newStep(level[position+1], SideRight)
	}
	// unpaired last node is its own sibling
	return newStep(level[position], SideRight)
}

func nextLevel(level []digest.Digest) ([]digest.Digest, error) {
	pairs := level
	if len(level)%2 == 1 {
		pairs = make([]digest.Digest, len(level)+1)
		copy(pairs, level)
		pairs[len(level)] = level[len(level)-1]
	}

	parents := make([]digest.Digest, len(pairs)/2)
	if err := digest.PairLevel(parents, pairs); err != nil {
		return nil, err
	}
	return parents, nil
}
