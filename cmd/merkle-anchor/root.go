package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/anchor"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/shared"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type GlobalFlags struct {
	EnvFile   string
	Network   string
	MirrorURL string
	TopicID   string
	LogLevel  string
	Pretty    bool
	Workers   int
}

// app is the state shared by subcommands once flags and environment have
// been resolved.
type app struct {
	flags  GlobalFlags
	config shared.AnchorConfig
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	state := &app{}

	rootCmd := &cobra.Command{
		Use:   "merkle-anchor",
		Short: "Anchor Merkle roots of record batches on Hedera",
		Long: `merkle-anchor hashes JSON record batches into a Merkle root, publishes the
root to a Hedera Consensus Service topic and verifies inclusion proofs against
anchored roots.

Operator credentials and defaults come from the environment or a .env file:
OPERATOR_ID, OPERATOR_KEY, OPERATOR_KEY_TYPE, HEDERA_NETWORK, TOPIC_ID,
MIRROR_NODE_BASE_URL, LOG_LEVEL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.init()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&state.flags.EnvFile, "env-file", "", "load variables from this .env file first")
	flags.StringVar(&state.flags.Network, "network", "", "hedera network: testnet|mainnet (default from HEDERA_NETWORK)")
	flags.StringVar(&state.flags.MirrorURL, "mirror-url", "", "mirror node base URL (default from MIRROR_NODE_BASE_URL)")
	flags.StringVar(&state.flags.TopicID, "topic", "", "anchor topic ID (default from TOPIC_ID)")
	flags.StringVar(&state.flags.LogLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.BoolVar(&state.flags.Pretty, "pretty", false, "human readable logs")
	flags.IntVar(&state.flags.Workers, "workers", 0, "leaf hashing workers (default GOMAXPROCS)")

	rootCmd.AddCommand(
		newGenerateCmd(state),
		newMerkleRootCmd(state),
		newProveCmd(state),
		newVerifyCmd(state),
		newKeygenCmd(state),
		newCreateTopicCmd(state),
		newDescribeTopicCmd(state),
		newAnchorCmd(state),
		newFetchCmd(state),
		newStatusCmd(state),
	)
	return rootCmd
}

func (a *app) init() error {
	if a.flags.EnvFile != "" {
		if _, err := shared.LoadDotEnv(a.flags.EnvFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", a.flags.EnvFile, err)
		}
	}
	config, err := shared.AnchorConfigForNetwork(a.flags.Network)
	if err != nil {
		return err
	}
	a.flags.Network = config.Network
	if a.flags.MirrorURL != "" {
		config.MirrorBaseURL = a.flags.MirrorURL
	}
	if a.flags.TopicID != "" {
		config.TopicID = a.flags.TopicID
	}
	if a.flags.LogLevel != "" {
		config.LogLevel = a.flags.LogLevel
	}

	a.config = config
	a.logger = shared.NewLogger(shared.LogConfig{Level: config.LogLevel, Pretty: a.flags.Pretty})
	return nil
}

func (a *app) anchorClient(requireOperator bool) (*anchor.Client, error) {
	if requireOperator {
		if err := a.config.RequireOperator(); err != nil {
			return nil, err
		}
	}
	return anchor.NewClient(anchor.ClientConfig{
		OperatorAccountID:  a.config.Operator.AccountID,
		OperatorPrivateKey: a.config.Operator.PrivateKey,
		OperatorKeyType:    a.config.Operator.KeyType,
		Network:            a.config.Network,
		MirrorBaseURL:      a.config.MirrorBaseURL,
		Logger:             a.logger,
	})
}

func (a *app) topicID() (string, error) {
	if err := a.config.RequireTopic(); err != nil {
		return "", fmt.Errorf("%w (set --topic or TOPIC_ID)", err)
	}
	return strings.TrimSpace(a.config.TopicID), nil
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
