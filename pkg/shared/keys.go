package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	KeyTypeAuto    = "auto"
	KeyTypeECDSA   = "ecdsa"
	KeyTypeEd25519 = "ed25519"
)

// ParsePrivateKey parses raw, detecting the key type.
func ParsePrivateKey(raw string) (hedera.PrivateKey, error) {
	return ParsePrivateKeyWithType(raw, KeyTypeAuto)
}

// ParsePrivateKeyWithType parses raw as the given key type. Raw 32-byte hex
// keys are ambiguous, so callers holding ECDSA keys should say so.
func ParsePrivateKeyWithType(raw string, keyType string) (hedera.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PrivateKey{}, fmt.Errorf("private key cannot be empty")
	}

	switch strings.ToLower(strings.TrimSpace(keyType)) {
	case KeyTypeECDSA:
		key, err := hedera.PrivateKeyFromStringECDSA(candidate)
		if err != nil {
			return hedera.PrivateKey{}, fmt.Errorf("failed to parse ECDSA private key: %w", err)
		}
		return key, nil
	case KeyTypeEd25519:
		key, err := hedera.PrivateKeyFromStringEd25519(candidate)
		if err != nil {
			return hedera.PrivateKey{}, fmt.Errorf("failed to parse ED25519 private key: %w", err)
		}
		return key, nil
	case KeyTypeAuto, "":
	default:
		return hedera.PrivateKey{}, fmt.Errorf("unsupported key type %q", keyType)
	}

	ed25519Key, edErr := hedera.PrivateKeyFromStringEd25519(candidate)
	if edErr == nil {
		return ed25519Key, nil
	}

	ecdsaKey, ecdsaErr := hedera.PrivateKeyFromStringECDSA(candidate)
	if ecdsaErr == nil {
		return ecdsaKey, nil
	}

	genericKey, genericErr := hedera.PrivateKeyFromString(candidate)
	if genericErr == nil {
		return genericKey, nil
	}

	return hedera.PrivateKey{}, fmt.Errorf(
		"failed to parse private key as ED25519 (%v), ECDSA (%v), or generic (%v)",
		edErr,
		ecdsaErr,
		genericErr,
	)
}
