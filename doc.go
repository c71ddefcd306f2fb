// Merkle Anchor for Go computes deterministic Merkle roots over batches of
// JSON records and anchors them on the Hedera Consensus Service, so that any
// single record can later be proven to belong to an anchored batch.
//
// # Packages
//
//   - canonical: sorted-key JSON canonicalization of records
//   - digest: SHA-256 leaf and pair hashing
//   - merkle: root computation, inclusion proofs and verification
//   - batch: parallel leaf hashing of a record batch
//   - dataset: sample data, proof bundles and manifests on disk
//   - anchor: anchor envelopes, signing, topic publishing and fetching
//   - mirror: Hedera mirror node REST client
//   - shared: network, operator configuration and logging
//
// The merkle-anchor command under cmd/ wraps these packages.
//
// # Installation
//
//	go install github.com/hashgraph-online/merkle-anchor-go/cmd/merkle-anchor@latest
package merkle_anchor_go
