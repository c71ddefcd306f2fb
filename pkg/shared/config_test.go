package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{"HEDERA_NETWORK", "NETWORK", "TOPIC_ID", "HCS_TOPIC_ID", "MIRROR_NODE_BASE_URL",
		"MIRROR_BASE_URL", "LOG_LEVEL", "OPERATOR_KEY_TYPE", "HEDERA_KEY_TYPE"}
	for _, prefix := range []string{"", "TESTNET_", "MAINNET_"} {
		keys = append(keys, prefixed(prefix, accountIDKeys)...)
		keys = append(keys, prefixed(prefix, privateKeyKeys)...)
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestOperatorConfigFromEnvPrefersScopedKeys(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HEDERA_NETWORK", "mainnet")
	t.Setenv("OPERATOR_ID", "0.0.1")
	t.Setenv("OPERATOR_KEY", "generic-key")
	t.Setenv("MAINNET_OPERATOR_ID", "0.0.2")
	t.Setenv("MAINNET_HEDERA_PRIVATE_KEY", "scoped-key")
	t.Setenv("OPERATOR_KEY_TYPE", "ecdsa")

	config, err := OperatorConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.AccountID != "0.0.2" || config.PrivateKey != "scoped-key" {
		t.Fatalf("expected scoped credentials, got %+v", config)
	}
	if config.Network != NetworkMainnet || config.KeyType != KeyTypeECDSA {
		t.Fatalf("unexpected network or key type: %+v", config)
	}
}

func TestOperatorConfigFromEnvDefaultsToECDSA(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HEDERA_ACCOUNT_ID", "0.0.7")
	t.Setenv("HEDERA_PRIVATE_KEY", "key")

	config, err := OperatorConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.KeyType != KeyTypeECDSA || config.Network != NetworkTestnet {
		t.Fatalf("unexpected defaults: %+v", config)
	}
}

func TestOperatorConfigFromEnvMissingCredentials(t *testing.T) {
	clearConfigEnv(t)

	if _, err := OperatorConfigFromEnv(); err == nil {
		t.Fatal("expected error when OPERATOR_ID is unset")
	}

	t.Setenv("OPERATOR_ID", "0.0.1")
	if _, err := OperatorConfigFromEnv(); err == nil {
		t.Fatal("expected error when OPERATOR_KEY is unset")
	}
}

func TestAnchorConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HCS_TOPIC_ID", "0.0.5005")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := AnchorConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.TopicID != "0.0.5005" {
		t.Fatalf("expected topic from HCS_TOPIC_ID, got %q", config.TopicID)
	}
	if config.MirrorBaseURL != DefaultMirrorBaseURL(NetworkTestnet) {
		t.Fatalf("expected default testnet mirror, got %q", config.MirrorBaseURL)
	}
	if config.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", config.LogLevel)
	}
	if err := config.RequireOperator(); err == nil {
		t.Fatal("expected missing operator error")
	}
	if err := config.RequireTopic(); err != nil {
		t.Fatalf("unexpected topic error: %v", err)
	}

	t.Setenv("TOPIC_ID", "0.0.6006")
	t.Setenv("MIRROR_NODE_BASE_URL", "http://localhost:5551")
	config, err = AnchorConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.TopicID != "0.0.6006" || config.MirrorBaseURL != "http://localhost:5551" {
		t.Fatalf("expected TOPIC_ID and mirror override to win, got %+v", config)
	}
}

func TestAnchorConfigFromEnvRejectsUnknownNetwork(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HEDERA_NETWORK", "previewnet")

	if _, err := AnchorConfigFromEnv(); err == nil {
		t.Fatal("expected unsupported network error")
	}
}

func TestAnchorConfigForNetworkIgnoresEnvNetwork(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HEDERA_NETWORK", "previewnet")
	t.Setenv("TOPIC_ID", "0.0.7007")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("OPERATOR_ID", "0.0.1")
	t.Setenv("OPERATOR_KEY", "generic-key")
	t.Setenv("MAINNET_OPERATOR_ID", "0.0.2")
	t.Setenv("MAINNET_OPERATOR_KEY", "mainnet-key")

	config, err := AnchorConfigForNetwork("mainnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkMainnet || config.MirrorBaseURL != DefaultMirrorBaseURL(NetworkMainnet) {
		t.Fatalf("expected mainnet settings, got %+v", config)
	}
	if config.TopicID != "0.0.7007" || config.LogLevel != "warn" {
		t.Fatalf("expected environment values to survive, got %+v", config)
	}
	if config.Operator.AccountID != "0.0.2" || config.Operator.PrivateKey != "mainnet-key" {
		t.Fatalf("expected mainnet scoped operator, got %+v", config.Operator)
	}

	if _, err := AnchorConfigForNetwork("devnet"); err == nil {
		t.Fatal("expected unsupported network error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("_TEST_DOTENV_PREEXIST", "kept")
	defer os.Unsetenv("_TEST_DOTENV_EXPORT")
	defer os.Unsetenv("_TEST_DOTENV_DQ")

	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nexport _TEST_DOTENV_EXPORT=0.0.42\n_TEST_DOTENV_DQ=\"quoted\"\n" +
		"_TEST_DOTENV_PREEXIST=replaced\n1BAD=x\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	loaded, err := LoadDotEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loaded {
		t.Fatal("expected variables to be applied")
	}
	if got := os.Getenv("_TEST_DOTENV_EXPORT"); got != "0.0.42" {
		t.Fatalf("expected exported value from file, got %q", got)
	}
	if got := os.Getenv("_TEST_DOTENV_DQ"); got != "quoted" {
		t.Fatalf("expected quotes stripped, got %q", got)
	}
	if got := os.Getenv("_TEST_DOTENV_PREEXIST"); got != "kept" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if _, ok := os.LookupEnv("1BAD"); ok {
		t.Fatal("invalid key should not be applied")
	}

	if _, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var output bytes.Buffer
	logger := NewLogger(LogConfig{Level: "WARN", Writer: &output})
	logger.Info().Msg("hidden")
	logger.Warn().Str("topic", "0.0.1").Msg("shown")

	if strings.Contains(output.String(), "hidden") {
		t.Fatalf("info message should be filtered: %s", output.String())
	}
	if !strings.Contains(output.String(), `"topic":"0.0.1"`) {
		t.Fatalf("expected structured field, got %s", output.String())
	}

	output.Reset()
	fallback := NewLogger(LogConfig{Level: "chatty", Writer: &output})
	fallback.Debug().Msg("debug")
	fallback.Info().Msg("info")
	if strings.Contains(output.String(), `"message":"debug"`) || !strings.Contains(output.String(), `"message":"info"`) {
		t.Fatalf("expected info fallback level, got %s", output.String())
	}
}
