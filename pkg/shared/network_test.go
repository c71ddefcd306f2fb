package shared

import (
	"testing"
)

func TestNormalizeNetwork(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"mainnet", NetworkMainnet},
		{"testnet", NetworkTestnet},
		{"MAINNET", NetworkMainnet},
		{"Testnet", NetworkTestnet},
		{"  mainnet  ", NetworkMainnet},
		{"", NetworkTestnet},
		{"   ", NetworkTestnet},
	}

	for _, tc := range cases {
		result, err := NormalizeNetwork(tc.input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if result != tc.expected {
			t.Fatalf("expected %q for input %q, got %q", tc.expected, tc.input, result)
		}
	}
}

func TestNormalizeNetworkUnsupported(t *testing.T) {
	_, err := NormalizeNetwork("devnet")
	if err == nil {
		t.Fatal("expected error for unsupported network")
	}
}

func TestNewHederaClient(t *testing.T) {
	for _, network := range []string{"mainnet", "testnet"} {
		client, err := NewHederaClient(network)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", network, err)
		}
		if client == nil {
			t.Fatalf("expected non-nil client for %s", network)
		}
	}

	if _, err := NewHederaClient("devnet"); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}

func TestDefaultMirrorBaseURL(t *testing.T) {
	if got := DefaultMirrorBaseURL(NetworkMainnet); got != "https://mainnet-public.mirrornode.hedera.com" {
		t.Fatalf("unexpected mainnet mirror URL %q", got)
	}
	if got := DefaultMirrorBaseURL(NetworkTestnet); got != "https://testnet.mirrornode.hedera.com" {
		t.Fatalf("unexpected testnet mirror URL %q", got)
	}
}

func TestHashScanTransactionURL(t *testing.T) {
	got := HashScanTransactionURL("MAINNET", " 0.0.1234@1700000000.000000001 ")
	expected := "https://hashscan.io/mainnet/transaction/0.0.1234@1700000000.000000001"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}

	if got := HashScanTransactionURL("devnet", "x"); got != "https://hashscan.io/testnet/transaction/x" {
		t.Fatalf("unexpected fallback URL %q", got)
	}
}
