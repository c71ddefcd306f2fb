package merkle

import (
	"encoding/json"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
)

// Side is the position of a sibling within its pair.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Step is one level of an inclusion proof.
type Step struct {
	Sibling string `json:"sibling"`
	Side    Side   `json:"side"`
}

// Proof is ordered from the leaf level up to, but excluding, the root.
type Proof []Step

func newStep(sibling digest.Digest, side Side) Step {
	return Step{Sibling: sibling.Hex(), Side: side}
}

// UnmarshalJSON also accepts the older {"siblingHashHex", "position"} keys.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sibling        *string `json:"sibling"`
		Side           *Side   `json:"side"`
		SiblingHashHex *string `json:"siblingHashHex"`
		Position       *Side   `json:"position"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Step{}
	switch {
	case raw.Sibling != nil:
		s.Sibling = *raw.Sibling
	case raw.SiblingHashHex != nil:
		s.Sibling = *raw.SiblingHashHex
	}
	switch {
	case raw.Side != nil:
		s.Side = *raw.Side
	case raw.Position != nil:
		s.Side = *raw.Position
	}
	return nil
}
