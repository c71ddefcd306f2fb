// Package anchor publishes Merkle roots to a Hedera Consensus Service topic
// and reads them back.
//
// An anchor is a small JSON envelope naming the dataset, the record count,
// the canonicalization and tree rules, and the hex Merkle root. Once the
// envelope reaches consensus, anyone holding a record and its inclusion
// proof can check membership against the root fetched from a mirror node:
//
//	record, _ := anchors.GetLatestAnchor(ctx, topicID)
//	ok, err := anchor.VerifyRecord(record.Envelope, leafHex, proof)
//
// Envelopes may carry an optional secp256k1 signature over their canonical
// form, so a reader can tell who produced a root independently of which
// account paid for the topic message.
package anchor
