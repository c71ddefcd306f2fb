package anchor

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
)

const SignatureAlgorithm = "secp256k1-sha256"

type SigningKey struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

// GenerateSigningKey returns a fresh secp256k1 key pair, hex encoded.
func GenerateSigningKey() (SigningKey, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return SigningKey{}, err
	}
	return SigningKey{
		PrivateKey: hex.EncodeToString(privateKey.Serialize()),
		PublicKey:  hex.EncodeToString(privateKey.PubKey().SerializeCompressed()),
	}, nil
}

// SigningDigest is the SHA-256 of the canonical envelope with the
// signature removed.
func SigningDigest(envelope Envelope) (digest.Digest, error) {
	envelope.Signature = nil
	encoded, err := canonical.CanonicalizeAny(envelope)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("failed to canonicalize anchor envelope: %w", err)
	}
	return digest.Sum(encoded), nil
}

// SignEnvelope returns a copy of envelope carrying a DER signature made with
// privateKeyHex.
func SignEnvelope(envelope Envelope, privateKeyHex string) (Envelope, error) {
	keyBytes, err := parseHexString(privateKeyHex)
	if err != nil {
		return Envelope{}, fmt.Errorf("invalid signing key: %w", err)
	}
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return Envelope{}, fmt.Errorf("invalid signing key: expected %d bytes, got %d", btcec.PrivKeyBytesLen, len(keyBytes))
	}

	signingDigest, err := SigningDigest(envelope)
	if err != nil {
		return Envelope{}, err
	}

	privateKey, publicKey := btcec.PrivKeyFromBytes(keyBytes)
	signature := ecdsa.Sign(privateKey, signingDigest.Bytes())

	envelope.Signature = &Signature{
		Algorithm: SignatureAlgorithm,
		PublicKey: hex.EncodeToString(publicKey.SerializeCompressed()),
		Value:     hex.EncodeToString(signature.Serialize()),
	}
	return envelope, nil
}

// VerifyEnvelopeSignature checks the embedded signature. When
// expectedPublicKeyHex is non-empty the signer must also match it.
func VerifyEnvelopeSignature(envelope Envelope, expectedPublicKeyHex string) error {
	if envelope.Signature == nil {
		return ErrUnsigned
	}
	if envelope.Signature.Algorithm != SignatureAlgorithm {
		return fmt.Errorf("%w: unsupported algorithm %q", ErrSignatureMismatch, envelope.Signature.Algorithm)
	}

	publicKeyBytes, err := parseHexString(envelope.Signature.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: public key: %v", ErrSignatureMismatch, err)
	}
	publicKey, err := btcec.ParsePubKey(publicKeyBytes)
	if err != nil {
		return fmt.Errorf("%w: public key: %v", ErrSignatureMismatch, err)
	}

	if expected := strings.TrimSpace(expectedPublicKeyHex); expected != "" {
		expectedBytes, err := parseHexString(expected)
		if err != nil {
			return fmt.Errorf("invalid expected public key: %w", err)
		}
		expectedKey, err := btcec.ParsePubKey(expectedBytes)
		if err != nil {
			return fmt.Errorf("invalid expected public key: %w", err)
		}
		if !expectedKey.IsEqual(publicKey) {
			return fmt.Errorf("%w: signed by %s", ErrSignatureMismatch, envelope.Signature.PublicKey)
		}
	}

	signatureBytes, err := parseHexString(envelope.Signature.Value)
	if err != nil {
		return fmt.Errorf("%w: signature: %v", ErrSignatureMismatch, err)
	}
	signature, err := ecdsa.ParseDERSignature(signatureBytes)
	if err != nil {
		return fmt.Errorf("%w: signature: %v", ErrSignatureMismatch, err)
	}

	signingDigest, err := SigningDigest(envelope)
	if err != nil {
		return err
	}
	if !signature.Verify(signingDigest.Bytes(), publicKey) {
		return ErrSignatureMismatch
	}
	return nil
}

func parseHexString(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("hex string is required")
	}
	normalized := strings.TrimPrefix(trimmed, "0x")
	decoded, err := hex.DecodeString(normalized)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
