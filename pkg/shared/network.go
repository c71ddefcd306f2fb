package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

const (
	mainnetMirrorBaseURL = "https://mainnet-public.mirrornode.hedera.com"
	testnetMirrorBaseURL = "https://testnet.mirrornode.hedera.com"
	hashScanBaseURL      = "https://hashscan.io"
)

// NormalizeNetwork lower-cases network and defaults it to testnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}

	switch normalized {
	case NetworkMainnet, NetworkTestnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// NewHederaClient creates a new HederaClient.
func NewHederaClient(network string) (*hedera.Client, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}

	if normalized == NetworkMainnet {
		return hedera.ClientForMainnet(), nil
	}

	return hedera.ClientForTestnet(), nil
}

// DefaultMirrorBaseURL returns the public mirror node for an already
// normalized network.
func DefaultMirrorBaseURL(network string) string {
	if network == NetworkMainnet {
		return mainnetMirrorBaseURL
	}
	return testnetMirrorBaseURL
}

func HashScanTransactionURL(network string, transactionID string) string {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		normalized = NetworkTestnet
	}
	return fmt.Sprintf("%s/%s/transaction/%s", hashScanBaseURL, normalized, strings.TrimSpace(transactionID))
}
