package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONSearchTermGateway keeps the terms as a JSON array in a single file.
type JSONSearchTermGateway struct {
	Path string
}

var _ SearchTermGateway = (*JSONSearchTermGateway)(nil)

func NewJSONSearchTermGateway(path string) *JSONSearchTermGateway {
	return &JSONSearchTermGateway{Path: path}
}

// Load returns the stored terms; a missing file is an empty log.
func (gateway *JSONSearchTermGateway) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(gateway.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read search terms: %w", err)
	}

	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("decode search terms from %s: %w", gateway.Path, err)
	}
	return terms, nil
}

// Save replaces the file atomically through a temporary file in the same directory.
func (gateway *JSONSearchTermGateway) Save(_ context.Context, terms []string) error {
	if terms == nil {
		terms = []string{}
	}
	data, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("encode search terms: %w", err)
	}

	dir := filepath.Dir(gateway.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create search terms directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".search-terms-*.json")
	if err != nil {
		return fmt.Errorf("create temporary search terms file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write search terms: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close search terms: %w", err)
	}
	if err := os.Rename(tmp.Name(), gateway.Path); err != nil {
		return fmt.Errorf("replace search terms: %w", err)
	}
	return nil
}
