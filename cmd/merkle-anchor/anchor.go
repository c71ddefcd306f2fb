package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/anchor"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/dataset"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/shared"
	"github.com/spf13/cobra"
)

func newKeygenCmd(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 key for signing envelopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := anchor.GenerateSigningKey()
			if err != nil {
				return err
			}
			return printJSON(cmd, key)
		},
	}
}

func newCreateTopicCmd(state *app) *cobra.Command {
	var options anchor.CreateTopicOptions

	cmd := &cobra.Command{
		Use:   "create-topic",
		Short: "Create an HCS topic for anchors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.anchorClient(true)
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.CreateAnchorTopic(contextOf(cmd), options)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"topicId":       result.TopicID,
				"transactionId": result.TransactionID,
				"hashscan":      shared.HashScanTransactionURL(state.config.Network, result.TransactionID),
				"env":           fmt.Sprintf("TOPIC_ID=%s", result.TopicID),
			})
		},
	}
	cmd.Flags().StringVar(&options.Memo, "memo", "", "topic memo (default "+anchor.BuildTopicMemo()+")")
	cmd.Flags().BoolVar(&options.UseOperatorAsAdmin, "admin-operator", false, "make the operator key the admin key")
	cmd.Flags().BoolVar(&options.UseOperatorAsSubmit, "submit-operator", false, "restrict submissions to the operator key")
	cmd.Flags().StringVar(&options.AdminKey, "admin-key", "", "admin public key")
	cmd.Flags().StringVar(&options.SubmitKey, "submit-key", "", "submit public key")
	return cmd
}

func newDescribeTopicCmd(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe-topic",
		Short: "Show topic metadata from the mirror node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := state.topicID()
			if err != nil {
				return err
			}
			client, err := state.anchorClient(false)
			if err != nil {
				return err
			}
			defer client.Close()

			description, err := client.DescribeTopic(contextOf(cmd), topicID)
			if err != nil {
				return err
			}
			return printJSON(cmd, description)
		},
	}
}

func newStatusCmd(state *app) *cobra.Command {
	var transactionID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Look up a submitted transaction on the mirror node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.anchorClient(false)
			if err != nil {
				return err
			}
			defer client.Close()

			status, err := client.LookupTransaction(contextOf(cmd), transactionID)
			if err != nil {
				return err
			}
			if !status.Found {
				state.logger.Info().Str("transaction_id", transactionID).Msg("transaction not indexed yet")
			}
			return printJSON(cmd, status)
		},
	}
	cmd.Flags().StringVar(&transactionID, "tx", "", "transaction ID printed by anchor or create-topic")
	_ = cmd.MarkFlagRequired("tx")
	return cmd
}

func newAnchorCmd(state *app) *cobra.Command {
	var (
		source         datasetFlags
		datasetVersion string
		batchFile      string
		signKey        string
		dryRun         bool
		publish        anchor.PublishOptions
	)

	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "Compute a dataset root and publish it to the anchor topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := source.process(state, false)
			if err != nil {
				return err
			}

			if batchFile == "" {
				batchFile = filepath.ToSlash(source.path)
			}
			envelope, err := anchor.NewEnvelope(result, anchor.EnvelopeOptions{
				DatasetVersion: datasetVersion,
				BatchFile:      batchFile,
			})
			if err != nil {
				return err
			}
			if signKey != "" {
				if envelope, err = anchor.SignEnvelope(envelope, signKey); err != nil {
					return err
				}
			}

			payload, err := anchor.MarshalEnvelope(envelope)
			if err != nil {
				return err
			}
			if sizeErr := anchor.CheckSize(payload, false); sizeErr != nil {
				state.logger.Warn().Int("bytes", len(payload)).Msg("envelope needs HCS chunking")
			}

			if dryRun {
				return printJSON(cmd, map[string]any{"envelope": envelope, "payloadBytes": len(payload)})
			}

			topicID, err := state.topicID()
			if err != nil {
				return err
			}
			client, err := state.anchorClient(true)
			if err != nil {
				return err
			}
			defer client.Close()

			published, err := client.PublishEnvelope(contextOf(cmd), topicID, envelope, publish)
			if errors.Is(err, anchor.ErrEnvelopeTooLarge) {
				return fmt.Errorf("%w (pass --allow-chunking to split it)", err)
			}
			if err != nil {
				return err
			}

			state.logger.Info().Msg("wait a few seconds for the mirror node before running fetch")
			return printJSON(cmd, map[string]any{
				"topicId":        topicID,
				"transactionId":  published.TransactionID,
				"sequenceNumber": published.SequenceNumber,
				"status":         published.Status,
				"hashscan":       shared.HashScanTransactionURL(state.config.Network, published.TransactionID),
				"envelope":       envelope,
			})
		},
	}
	source.register(cmd)
	cmd.Flags().StringVar(&datasetVersion, "dataset-version", anchor.DefaultDatasetVersion, "dataset version label")
	cmd.Flags().StringVar(&batchFile, "batch-file", "", "batch file name recorded in the envelope (default --dataset)")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "secp256k1 private key hex for signing the envelope")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the envelope without submitting")
	cmd.Flags().BoolVar(&publish.AllowChunking, "allow-chunking", false, "allow envelopes larger than one HCS message")
	cmd.Flags().StringVar(&publish.TransactionMemo, "tx-memo", "", "transaction memo (default derived from the root)")
	return cmd
}

func newFetchCmd(state *app) *cobra.Command {
	var (
		sequence   int64
		all        bool
		bundlePath string
		recordID   string
		signer     string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Read anchors from the mirror node and optionally verify a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := state.topicID()
			if err != nil {
				return err
			}
			if (bundlePath == "") != (recordID == "") {
				return fmt.Errorf("--bundle and --record must be used together")
			}
			client, err := state.anchorClient(false)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := contextOf(cmd)
			if all {
				records, err := client.GetAnchors(ctx, topicID)
				if err != nil {
					return err
				}
				return printJSON(cmd, records)
			}

			var record anchor.Record
			if sequence > 0 {
				record, err = client.GetAnchorBySequence(ctx, topicID, sequence)
			} else {
				record, err = client.GetLatestAnchor(ctx, topicID)
			}
			if err != nil {
				return err
			}

			output := map[string]any{"anchor": record}
			if record.Envelope.Signature != nil || signer != "" {
				if err := anchor.VerifyEnvelopeSignature(record.Envelope, signer); err != nil {
					return err
				}
				output["signatureValid"] = true
			}

			if bundlePath == "" {
				return printJSON(cmd, output)
			}

			bundle, err := dataset.LoadProofBundle(bundlePath)
			if err != nil {
				return err
			}
			entry, err := bundle.Entry(recordID)
			if err != nil {
				return err
			}
			valid, err := anchor.VerifyRecord(record.Envelope, entry.LeafHashHex, entry.Proof)
			if err != nil {
				return err
			}
			output["recordId"] = recordID
			output["valid"] = valid
			if err := printJSON(cmd, output); err != nil {
				return err
			}
			if !valid {
				return errProofInvalid
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&sequence, "sequence", 0, "topic sequence number (default latest)")
	cmd.Flags().BoolVar(&all, "all", false, "list every anchor on the topic")
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "proof bundle to verify a record from")
	cmd.Flags().StringVar(&recordID, "record", "", "record id inside --bundle")
	cmd.Flags().StringVar(&signer, "signer", "", "require the envelope to be signed by this public key hex")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
