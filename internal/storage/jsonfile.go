package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/daehan/moneybook/internal/model"
)

// JSONStore persists the ledger as a single pretty-printed JSON file,
// rewritten wholesale on every save.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON file store at the given path, creating the
// parent directory if needed.
func NewJSONStore(path string) (*JSONStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{path: path}, nil
}

// Load reads the ledger file. A missing or unreadable file loads as the
// empty state: the first run has no data file, and a corrupt one must not
// keep the application from starting.
func (s *JSONStore) Load(ctx context.Context) (model.LedgerState, error) {
	if err := validateContext(ctx); err != nil {
		return model.LedgerState{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read ledger file, starting empty", "path", s.path, "error", err)
		}
		return model.EmptyState(), nil
	}

	var state model.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("failed to parse ledger file, starting empty", "path", s.path, "error", err)
		return model.EmptyState(), nil
	}

	migrateState(&state)
	return state, nil
}

// Save rewrites the whole ledger file.
func (s *JSONStore) Save(ctx context.Context, state model.LedgerState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}

// Close implements service.Store; a file store holds no open resources.
func (s *JSONStore) Close() error {
	return nil
}
