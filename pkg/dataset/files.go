package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/hashgraph-online/merkle-anchor-go/pkg/canonical"
	"github.com/tidwall/gjson"
)

const CompressedSuffix = ".br"

var ErrNotArray = errors.New("dataset is not a JSON array")

// ReadFile returns the file contents, decompressing ".br" files.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return raw, nil
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return decompressed, nil
}

// LoadRecords reads a JSON array of records. A non-empty selector is a
// gjson path naming a nested array, e.g. "data.records".
func LoadRecords(path string, selector string) ([]canonical.Value, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecords(data, selector)
}

// ParseRecords is LoadRecords on bytes already in memory.
func ParseRecords(data []byte, selector string) ([]canonical.Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", canonical.ErrEncoding)
	}

	if selector = strings.TrimSpace(selector); selector != "" {
		selected := gjson.GetBytes(data, selector)
		if !selected.Exists() {
			return nil, fmt.Errorf("selector %q matched nothing", selector)
		}
		if !selected.IsArray() {
			return nil, fmt.Errorf("selector %q: %w", selector, ErrNotArray)
		}
		data = []byte(selected.Raw)
	} else if !gjson.ParseBytes(data).IsArray() {
		return nil, ErrNotArray
	}

	value, err := canonical.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	records, ok := value.(canonical.Array)
	if !ok {
		return nil, ErrNotArray
	}
	return []canonical.Value(records), nil
}

// WriteJSON writes v indented. With compress set the output is brotli
// compressed and CompressedSuffix is appended to path if missing. It
// returns the path written.
func WriteJSON(path string, v any, compress bool) (string, error) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	encoded = append(encoded, '\n')

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	if !compress {
		return path, os.WriteFile(path, encoded, 0o644)
	}

	if !strings.HasSuffix(path, CompressedSuffix) {
		path += CompressedSuffix
	}
	var buffer bytes.Buffer
	writer := brotli.NewWriterLevel(&buffer, brotli.BestCompression)
	if _, err := writer.Write(encoded); err != nil {
		return "", fmt.Errorf("failed to compress %s: %w", filepath.Base(path), err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to compress %s: %w", filepath.Base(path), err)
	}
	return path, os.WriteFile(path, buffer.Bytes(), 0o644)
}

func readJSON(path string, target any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
