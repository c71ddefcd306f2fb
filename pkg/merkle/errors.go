package merkle

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBatch      = errors.New("merkle root is undefined for an empty batch")
	ErrIndexOutOfRange = errors.New("leaf index out of range")
	ErrMalformedProof  = errors.New("malformed merkle proof")
)

type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("leaf index %d out of range for %d leaves", e.Index, e.Size)
}

// Unwrap also matches ErrEmptyBatch when there were no leaves at all.
func (e *IndexOutOfRangeError) Unwrap() []error {
	if e.Size == 0 {
		return []error{ErrIndexOutOfRange, ErrEmptyBatch}
	}
	return []error{ErrIndexOutOfRange}
}

// MalformedProofError reports a proof that cannot be evaluated. Step is -1
// when the problem is with the leaf or root rather than a proof step.
type MalformedProofError struct {
	Step   int
	Reason string
}

func (e *MalformedProofError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("malformed merkle proof: %s", e.Reason)
	}
	return fmt.Sprintf("malformed merkle proof at step %d: %s", e.Step, e.Reason)
}

func (e *MalformedProofError) Unwrap() error {
	return ErrMalformedProof
}
