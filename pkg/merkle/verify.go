package merkle

import (
	"fmt"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
)

// IncludedRoot folds proof over leaf and returns the root it implies.
func IncludedRoot(leaf digest.Digest, proof Proof) (digest.Digest, error) {
	current := leaf
	for index, step := range proof {
		sibling, err := digest.FromHex(step.Sibling)
		if err != nil {
			return digest.Digest{}, &MalformedProofError{Step: index, Reason: err.Error()}
		}

		switch step.Side {
		case SideRight:
			current = digest.Pair(current, sibling)
		case SideLeft:
			current = digest.Pair(sibling, current)
		default:
			return digest.Digest{}, &MalformedProofError{
				Step:   index,
				Reason: fmt.Sprintf("unrecognized side %q", step.Side),
			}
		}
	}
	return current, nil
}

// VerifyProof reports whether proof links leaf to root. A mismatch is
// (false, nil); only a proof that cannot be evaluated returns an error.
func VerifyProof(leaf, root digest.Digest, proof Proof) (bool, error) {
	included, err := IncludedRoot(leaf, proof)
	if err != nil {
		return false, err
	}
	return included == root, nil
}

// VerifyProofHex is VerifyProof over published hex values.
func VerifyProofHex(leafHex, rootHex string, proof Proof) (bool, error) {
	leaf, err := digest.FromHex(leafHex)
	if err != nil {
		return false, &MalformedProofError{Step: -1, Reason: "leaf: " + err.Error()}
	}
	root, err := digest.FromHex(rootHex)
	if err != nil {
		return false, &MalformedProofError{Step: -1, Reason: "root: " + err.Error()}
	}
	return VerifyProof(leaf, root, proof)
}
