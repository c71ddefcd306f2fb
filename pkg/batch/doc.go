// Package batch turns an ordered list of records into Merkle leaves, a root,
// and per-record inclusion proofs. It is the seam where loaders, publishers
// and verifiers attach to the hashing core; it performs no I/O itself.
package batch
