// Package calstore persists the user's one-time calendar selection as a
// small TOML file so the prompt never runs twice.
package calstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/jaekyeom/dayrecap/internal/ports"
)

const (
	selectionFileMode = 0o600
	selectionDirMode  = 0o700
	tempFilePattern   = ".calendars-*.toml.tmp"
	schemaVersion     = 1
)

type Store struct {
	path string
}

var _ ports.SelectionStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

type fileSchema struct {
	Version   int      `toml:"version"`
	Calendars []string `toml:"calendars"`
}

// Load returns the stored calendar names, or nil when no selection has been
// saved yet.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read calendar selection: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode calendar selection: %w", err)
	}

	return file.Calendars, nil
}

// Save replaces the selection atomically: write a temp file in the target
// directory, then rename it into place.
func (s *Store) Save(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), selectionDirMode); err != nil {
		return fmt.Errorf("create selection directory: %w", err)
	}

	data, err := toml.Marshal(fileSchema{Version: schemaVersion, Calendars: names})
	if err != nil {
		return fmt.Errorf("encode calendar selection: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp selection file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp selection file: %w", err)
	}
	if err := tempFile.Chmod(selectionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp selection file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp selection file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace selection file: %w", err)
	}
	cleanup = false

	return nil
}
