// Package canonical converts structured records into a unique, deterministic
// byte sequence suitable for hashing. Records are modelled as a closed set of
// JSON-shaped values (objects, arrays, strings, numbers, booleans and null)
// and serialized as minimal JSON with object keys sorted byte-wise at every
// depth.
//
// Two records with the same logical content always canonicalize to the same
// bytes, regardless of the order their fields were written in, so any
// independent implementation following the same rules reproduces identical
// leaf digests.
//
// # Rules
//
//   - Object keys are sorted by byte-wise comparison of their UTF-8 encoding.
//   - Array element order is preserved.
//   - No insignificant whitespace is emitted.
//   - Numbers use the ECMAScript number-to-string form (1, 1.5, 1e+21, 1e-7).
//   - NaN, infinities, invalid UTF-8 and cyclic input have no canonical form
//     and are rejected with an *EncodingError.
//
// This package is part of the Merkle Anchor toolkit for the Hedera
// Consensus Service.
package canonical
