// Package merkle builds binary SHA-256 hash trees over an ordered list of
// leaf digests, and generates and verifies inclusion proofs.
//
// Tree shape: adjacent leaves are paired left to right and each parent is
// digest.Pair(left, right). When a level has an odd number of nodes the last
// node is paired with itself (duplicate-last rule) rather than promoted. A
// single leaf is its own root. Trees are rebuilt from the leaves on every
// call; nothing is cached.
//
// Proofs list one step per level from leaf to root. Each step records the
// sibling digest as lowercase hex and the side the sibling sat on, which
// tells the verifier the concatenation order:
//
//	[{"sibling":"3e23e8...","side":"right"}]
//
// VerifyProof and VerifyProofHex need nothing but the published values, so
// a third party can check membership without seeing the other records.
package merkle
