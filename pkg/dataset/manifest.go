package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashgraph-online/merkle-anchor-go/pkg/batch"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/digest"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/merkle"
	"github.com/rs/zerolog"
)

// Manifest records the rules a dataset was hashed under and the roots a
// verifier should expect for each batch file.
type Manifest struct {
	DatasetVersion   string            `json:"datasetVersion"`
	HashAlgorithm    string            `json:"hashAlgorithm"`
	Canonicalization string            `json:"canonicalization"`
	MerkleTreeRule   string            `json:"merkleTreeRule"`
	ExpectedRoots    map[string]string `json:"expectedMerkleRoots"`
}

const legacyRootPrefix = "expectedMerkleRoot_"

// UnmarshalJSON also accepts the flat "expectedMerkleRoot_batch10" keys of
// older manifests; they land in ExpectedRoots as "batch-10".
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type manifestFields Manifest
	var fields manifestFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		name, found := strings.CutPrefix(key, legacyRootPrefix)
		if !found || name == "" {
			continue
		}
		var root string
		if err := json.Unmarshal(value, &root); err != nil {
			return fmt.Errorf("manifest %s: %w", key, err)
		}
		if fields.ExpectedRoots == nil {
			fields.ExpectedRoots = map[string]string{}
		}
		if _, exists := fields.ExpectedRoots[legacyBatchName(name)]; !exists {
			fields.ExpectedRoots[legacyBatchName(name)] = root
		}
	}

	*m = Manifest(fields)
	return nil
}

// legacyBatchName maps "batch10" to "batch-10".
func legacyBatchName(name string) string {
	digits := strings.TrimPrefix(name, "batch")
	if digits == name || digits == "" || strings.Trim(digits, "0123456789") != "" {
		return name
	}
	return "batch-" + digits
}

func NewManifest(datasetVersion string) Manifest {
	if datasetVersion == "" {
		datasetVersion = "v1"
	}
	return Manifest{
		DatasetVersion:   datasetVersion,
		HashAlgorithm:    digest.Algorithm,
		Canonicalization: canonical.RuleDescription,
		MerkleTreeRule:   merkle.RuleDescription,
		ExpectedRoots:    map[string]string{},
	}
}

func LoadManifest(path string) (Manifest, error) {
	var manifest Manifest
	if err := readJSON(path, &manifest); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

type FixtureOptions struct {
	Sizes          []int
	DatasetVersion string
	Compress       bool
	Workers        int
	Logger         zerolog.Logger
}

// FixtureFiles lists what WriteFixtures wrote for one batch size.
type FixtureFiles struct {
	Name       string `json:"name"`
	Records    int    `json:"records"`
	BatchPath  string `json:"batchPath"`
	ProofsPath string `json:"proofsPath"`
	RootHex    string `json:"merkleRoot"`
}

// WriteFixtures generates a batch per size under dir ("batch-N.json" and
// "proofs-N.json") plus "manifest.json".
func WriteFixtures(dir string, options FixtureOptions) (Manifest, []FixtureFiles, error) {
	sizes := append([]int(nil), options.Sizes...)
	if len(sizes) == 0 {
		sizes = []int{10, 100}
	}
	sort.Ints(sizes)

	processor := batch.NewProcessor(batch.Config{
		Workers:       options.Workers,
		IncludeProofs: true,
		Logger:        options.Logger,
	})

	manifest := NewManifest(options.DatasetVersion)
	written := make([]FixtureFiles, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 {
			return Manifest{}, nil, fmt.Errorf("batch size must be positive, got %d", size)
		}

		name := fmt.Sprintf("batch-%d", size)
		generated := Generate(size, DefaultBaseTime)
		records, err := canonical.Records(generated)
		if err != nil {
			return Manifest{}, nil, err
		}
		result, err := processor.Process(records)
		if err != nil {
			return Manifest{}, nil, err
		}
		bundle, err := BuildProofBundle(records, result)
		if err != nil {
			return Manifest{}, nil, err
		}

		batchPath, err := WriteJSON(filepath.Join(dir, name+".json"), generated, options.Compress)
		if err != nil {
			return Manifest{}, nil, err
		}
		proofsPath, err := WriteJSON(filepath.Join(dir, fmt.Sprintf("proofs-%d.json", size)), bundle, options.Compress)
		if err != nil {
			return Manifest{}, nil, err
		}

		manifest.ExpectedRoots[name] = result.RootHex()
		written = append(written, FixtureFiles{
			Name:       name,
			Records:    size,
			BatchPath:  batchPath,
			ProofsPath: proofsPath,
			RootHex:    result.RootHex(),
		})
		options.Logger.Info().Str("batch", name).Str("merkle_root", result.RootHex()).Msg("wrote fixture")
	}

	if _, err := WriteJSON(filepath.Join(dir, "manifest.json"), manifest, false); err != nil {
		return Manifest{}, nil, err
	}
	return manifest, written, nil
}
