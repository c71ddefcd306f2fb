package shared

import (
	"fmt"
	"strings"
)

type OperatorConfig struct {
	AccountID  string
	PrivateKey string
	KeyType    string
	Network    string
}

// AnchorConfig carries everything the anchoring commands read from the
// environment. Flags override individual fields.
type AnchorConfig struct {
	Operator      OperatorConfig
	Network       string
	TopicID       string
	MirrorBaseURL string
	LogLevel      string
}

var (
	accountIDKeys  = []string{"HEDERA_ACCOUNT_ID", "HEDERA_OPERATOR_ID", "ACCOUNT_ID", "OPERATOR_ID"}
	privateKeyKeys = []string{"HEDERA_PRIVATE_KEY", "HEDERA_OPERATOR_KEY", "PRIVATE_KEY", "OPERATOR_KEY"}
)

// OperatorConfigFromEnv loads operator credentials, preferring
// network-scoped variables (TESTNET_OPERATOR_ID, MAINNET_HEDERA_PRIVATE_KEY, ...).
// KeyType defaults to ECDSA; set OPERATOR_KEY_TYPE=auto to detect it.
func OperatorConfigFromEnv() (OperatorConfig, error) {
	return OperatorConfigForNetwork("")
}

// OperatorConfigForNetwork is OperatorConfigFromEnv with the network chosen
// by the caller. An empty network falls back to HEDERA_NETWORK.
func OperatorConfigForNetwork(network string) (OperatorConfig, error) {
	loadDotEnvIfPresent()

	network, err := envNetwork(network)
	if err != nil {
		return OperatorConfig{}, err
	}

	prefix := strings.ToUpper(network) + "_"
	accountID := firstNonEmptyEnv(prefixed(prefix, accountIDKeys)...)
	if accountID == "" {
		accountID = firstNonEmptyEnv(accountIDKeys...)
	}
	privateKey := firstNonEmptyEnv(prefixed(prefix, privateKeyKeys)...)
	if privateKey == "" {
		privateKey = firstNonEmptyEnv(privateKeyKeys...)
	}

	if accountID == "" {
		return OperatorConfig{}, fmt.Errorf("OPERATOR_ID is required")
	}
	if privateKey == "" {
		return OperatorConfig{}, fmt.Errorf("OPERATOR_KEY is required")
	}

	keyType := strings.ToLower(firstNonEmptyEnv("OPERATOR_KEY_TYPE", "HEDERA_KEY_TYPE"))
	if keyType == "" {
		keyType = KeyTypeECDSA
	}

	return OperatorConfig{
		AccountID:  accountID,
		PrivateKey: privateKey,
		KeyType:    keyType,
		Network:    network,
	}, nil
}

// AnchorConfigFromEnv loads the non-secret settings. Missing operator
// credentials are not an error here; commands that submit transactions
// check for them.
func AnchorConfigFromEnv() (AnchorConfig, error) {
	return AnchorConfigForNetwork("")
}

// AnchorConfigForNetwork is AnchorConfigFromEnv with the network chosen by
// the caller, such as a --network flag. HEDERA_NETWORK is then not read, so
// an invalid value there does not hide the rest of the environment.
func AnchorConfigForNetwork(network string) (AnchorConfig, error) {
	loadDotEnvIfPresent()

	network, err := envNetwork(network)
	if err != nil {
		return AnchorConfig{}, err
	}

	config := AnchorConfig{
		Network:       network,
		TopicID:       firstNonEmptyEnv("TOPIC_ID", "HCS_TOPIC_ID"),
		MirrorBaseURL: firstNonEmptyEnv("MIRROR_NODE_BASE_URL", "MIRROR_BASE_URL"),
		LogLevel:      firstNonEmptyEnv("LOG_LEVEL"),
	}
	if operator, operatorErr := OperatorConfigForNetwork(network); operatorErr == nil {
		config.Operator = operator
	}
	if config.MirrorBaseURL == "" {
		config.MirrorBaseURL = DefaultMirrorBaseURL(network)
	}

	return config, nil
}

// RequireOperator returns an error naming the missing credential.
func (c AnchorConfig) RequireOperator() error {
	if strings.TrimSpace(c.Operator.AccountID) == "" {
		return fmt.Errorf("OPERATOR_ID is required")
	}
	if strings.TrimSpace(c.Operator.PrivateKey) == "" {
		return fmt.Errorf("OPERATOR_KEY is required")
	}
	return nil
}

// RequireTopic returns an error when no anchor topic is configured.
func (c AnchorConfig) RequireTopic() error {
	if strings.TrimSpace(c.TopicID) == "" {
		return fmt.Errorf("TOPIC_ID is required")
	}
	return nil
}

func envNetwork(network string) (string, error) {
	if strings.TrimSpace(network) == "" {
		network = firstNonEmptyEnv("HEDERA_NETWORK", "NETWORK")
	}
	return NormalizeNetwork(network)
}

func prefixed(prefix string, keys []string) []string {
	result := make([]string, len(keys))
	for index, key := range keys {
		result[index] = prefix + key
	}
	return result
}
