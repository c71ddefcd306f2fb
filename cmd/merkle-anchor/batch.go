package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/batch"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/dataset"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/merkle"
	"github.com/spf13/cobra"
)

var errProofInvalid = errors.New("proof does not verify against the root")

func newGenerateCmd(state *app) *cobra.Command {
	var (
		outDir         string
		sizes          []int
		compress       bool
		datasetVersion string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write sample batches, proof bundles and a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, files, err := dataset.WriteFixtures(outDir, dataset.FixtureOptions{
				Sizes:          sizes,
				DatasetVersion: datasetVersion,
				Compress:       compress,
				Workers:        state.flags.Workers,
				Logger:         state.logger,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"manifest": manifest, "files": files})
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "data", "output directory")
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{10, 100}, "batch sizes to generate")
	cmd.Flags().BoolVar(&compress, "compress", false, "brotli compress batches and proofs")
	cmd.Flags().StringVar(&datasetVersion, "dataset-version", "v1", "dataset version recorded in the manifest")
	return cmd
}

type datasetFlags struct {
	path     string
	selector string
}

func (d *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.path, "dataset", "", "JSON array of records (.br for brotli)")
	cmd.Flags().StringVar(&d.selector, "select", "", "gjson path to a nested record array")
	_ = cmd.MarkFlagRequired("dataset")
}

func (d *datasetFlags) process(state *app, includeProofs bool) (*batch.Result, error) {
	records, err := dataset.LoadRecords(d.path, d.selector)
	if err != nil {
		return nil, err
	}
	processor := batch.NewProcessor(batch.Config{
		Workers:       state.flags.Workers,
		IncludeProofs: includeProofs,
		Logger:        state.logger,
	})
	return processor.Process(records)
}

func newMerkleRootCmd(state *app) *cobra.Command {
	var source datasetFlags

	cmd := &cobra.Command{
		Use:   "root",
		Short: "Compute the Merkle root of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := source.process(state, false)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"merkleRoot":  result.RootHex(),
				"recordCount": result.RecordCount,
			})
		},
	}
	source.register(cmd)
	return cmd
}

func newProveCmd(state *app) *cobra.Command {
	var (
		source   datasetFlags
		index    int
		recordID string
	)

	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Print the inclusion proof for one record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := dataset.LoadRecords(source.path, source.selector)
			if err != nil {
				return err
			}
			if recordID != "" {
				index = -1
				for position, record := range records {
					if dataset.RecordID(record, position) == recordID {
						index = position
						break
					}
				}
				if index < 0 {
					return fmt.Errorf("record %q not found in %s", recordID, source.path)
				}
			}

			result, err := batch.NewProcessor(batch.Config{
				Workers: state.flags.Workers,
				Logger:  state.logger,
			}).Process(records)
			if err != nil {
				return err
			}
			recordProof, err := result.Proof(index)
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]any{
				"recordId":    dataset.RecordID(records[index], index),
				"index":       index,
				"leafHashHex": recordProof.LeafHashHex,
				"merkleRoot":  result.RootHex(),
				"proof":       recordProof.Proof,
			})
		},
	}
	source.register(cmd)
	cmd.Flags().IntVar(&index, "index", 0, "record position in the batch")
	cmd.Flags().StringVar(&recordID, "record", "", "record id (overrides --index)")
	return cmd
}

func newVerifyCmd(state *app) *cobra.Command {
	var (
		leafHex    string
		rootHex    string
		proofPath  string
		bundlePath string
		recordID   string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an inclusion proof offline",
		Long: `verify folds a proof from a leaf hash up to a root. The proof comes from
either --proof (a JSON array of steps) or --bundle with --record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var proof merkle.Proof
			switch {
			case bundlePath != "":
				bundle, err := dataset.LoadProofBundle(bundlePath)
				if err != nil {
					return err
				}
				entry, err := bundle.Entry(recordID)
				if err != nil {
					return err
				}
				proof = entry.Proof
				if leafHex == "" {
					leafHex = entry.LeafHashHex
				}
			case proofPath != "":
				if err := readProof(proofPath, &proof); err != nil {
					return err
				}
			default:
				return fmt.Errorf("one of --proof or --bundle is required")
			}

			valid, err := merkle.VerifyProofHex(leafHex, rootHex, proof)
			if err != nil {
				return err
			}
			state.logger.Debug().Bool("valid", valid).Int("steps", len(proof)).Msg("verified proof")
			if err := printJSON(cmd, map[string]any{"valid": valid, "merkleRoot": rootHex, "leafHashHex": leafHex}); err != nil {
				return err
			}
			if !valid {
				return errProofInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&leafHex, "leaf", "", "leaf hash hex (defaults to the bundle entry)")
	cmd.Flags().StringVar(&rootHex, "root", "", "expected Merkle root hex")
	cmd.Flags().StringVar(&proofPath, "proof", "", "file holding a JSON proof array")
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "proof bundle written by generate")
	cmd.Flags().StringVar(&recordID, "record", "", "record id inside --bundle")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

// readProof accepts either a bare proof array or an object with a "proof"
// field, such as the output of prove.
func readProof(path string, proof *merkle.Proof) error {
	data, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	var wrapped struct {
		Proof merkle.Proof `json:"proof"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Proof != nil {
		*proof = wrapped.Proof
		return nil
	}
	if err := json.Unmarshal(data, proof); err != nil {
		return fmt.Errorf("failed to decode proof in %s: %w", path, err)
	}
	return nil
}
