// Package digest provides the fixed 256-bit one-way hash used for Merkle
// leaves and internal nodes. The algorithm is SHA-256 with no salt or key; its
// identifier is exported as Algorithm so it can be published next to a root.
//
// Digests travel between parties as 64-character lowercase hexadecimal
// strings.
package digest
