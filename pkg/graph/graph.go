package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

// =============================================================================
// Glycan Serialization API
// =============================================================================

// MarshalGlycan converts a tree to JSON bytes.
func MarshalGlycan(t *glycan.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGlycanTo(FromTree(t), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGlycanFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteGlycanFile(t *glycan.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGlycanTo(FromTree(t), f)
}

// WriteGlycan writes a tree as JSON to an io.Writer.
func WriteGlycan(t *glycan.Tree, w io.Writer) error {
	return writeGlycanTo(FromTree(t), w)
}

// ReadGlycanFile reads a JSON file and returns the decoded tree with a fresh
// registry.
func ReadGlycanFile(path string) (*glycan.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGlycanFrom(f)
}

// ReadGlycan decodes a JSON document from an io.Reader into a tree.
func ReadGlycan(r io.Reader) (*glycan.Tree, error) {
	return readGlycanFrom(r)
}

// UnmarshalGlycan decodes JSON bytes into the wire format without building
// a tree.
func UnmarshalGlycan(data []byte) (Glycan, error) {
	var g Glycan
	if err := json.Unmarshal(data, &g); err != nil {
		return Glycan{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGlycanTo(g Glycan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGlycanFrom(r io.Reader) (*glycan.Tree, error) {
	var data Glycan
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return ToTree(data, nil)
}
