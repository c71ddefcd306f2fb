package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	sha256simd "github.com/minio/sha256-simd"
	"github.com/prysmaticlabs/gohashtree"
)

const (
	Algorithm = "sha256"
	Size      = 32
)

var (
	ErrInvalidHex    = errors.New("digest is not valid hex")
	ErrInvalidLength = errors.New("digest has the wrong length")
)

// Digest is a SHA-256 output.
type Digest [Size]byte

// Sum hashes data.
func Sum(data []byte) Digest {
	return Digest(sha256simd.Sum256(data))
}

// Pair returns Sum(left || right).
func Pair(left, right Digest) Digest {
	var payload [2 * Size]byte
	copy(payload[:Size], left[:])
	copy(payload[Size:], right[:])
	return Sum(payload[:])
}

// PairLevel hashes consecutive pairs of pairs into dst, so that
// dst[i] = Pair(pairs[2i], pairs[2i+1]). len(pairs) must be exactly
// 2*len(dst).
func PairLevel(dst []Digest, pairs []Digest) error {
	if len(pairs) != 2*len(dst) {
		return fmt.Errorf("pair level needs %d inputs for %d outputs, got %d", 2*len(dst), len(dst), len(pairs))
	}
	if len(dst) == 0 {
		return nil
	}

	outputs := make([][32]byte, len(dst))
	chunks := make([][32]byte, len(pairs))
	for index, item := range pairs {
		chunks[index] = item
	}
	if err := gohashtree.Hash(outputs, chunks); err != nil {
		return fmt.Errorf("failed to hash node pairs: %w", err)
	}
	for index, item := range outputs {
		dst[index] = item
	}
	return nil
}

// Hex returns the lowercase hexadecimal form.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Bytes returns a copy of the digest as a slice.
func (d Digest) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, d[:])
	return out
}

// FromHex parses a 64-character hexadecimal digest. Upper case input is
// accepted; surrounding whitespace is ignored.
func FromHex(value string) (Digest, error) {
	var d Digest
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 2*Size {
		return d, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidLength, 2*Size, len(trimmed))
	}
	if _, err := hex.Decode(d[:], []byte(trimmed)); err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return d, nil
}

// FromBytes copies a raw 32-byte digest.
func FromBytes(raw []byte) (Digest, error) {
	var d Digest
	if len(raw) != Size {
		return d, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, Size, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
