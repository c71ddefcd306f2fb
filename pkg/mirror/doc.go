// Package mirror is a small Hedera Mirror Node REST client. It reads topic
// metadata, topic messages and transactions, which is all that is needed to
// retrieve a published Merkle root anchor and check it against local data.
//
// Mirror nodes return message payloads base64 encoded; DecodeMessageData and
// DecodeMessageJSON undo that.
package mirror
