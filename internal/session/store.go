package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"grindccat/internal/model"
)

// StoreVersion is the on-disk format version written by Save.
const StoreVersion = 1

// ErrStoreVersion is returned by Load when the file was written by another
// format version. The caller should Reset and start over.
var ErrStoreVersion = errors.New("unsupported store version")

// Snapshot is the part of a test that survives a restart. Progress, timer
// and attempts are deliberately not persisted: resuming restarts the test
// with the same questions.
type Snapshot struct {
	Username  string           `json:"username"`
	Questions []model.Question `json:"questions"`
}

// Empty reports whether there is nothing to resume.
func (s Snapshot) Empty() bool {
	return s.Username == "" && len(s.Questions) == 0
}

type storeFile struct {
	Version int      `json:"version"`
	State   Snapshot `json:"state"`
}

// Store persists a Snapshot as a versioned JSON file.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath is test-store.json under the user's cache directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(dir, "grindccat", "test-store.json"), nil
}

func (s *Store) Path() string { return s.path }

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *Store) Load() (Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("read store: %w", err)
	}

	var f storeFile
	if err := json.Unmarshal(b, &f); err != nil {
		return Snapshot{}, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	if f.Version != StoreVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrStoreVersion, f.Version)
	}
	return f.State, nil
}

// Save replaces the file atomically: it writes a temp file in the same
// directory and renames it over the old one.
func (s *Store) Save(snap Snapshot) error {
	b, err := json.Marshal(storeFile{Version: StoreVersion, State: snap})
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".test-store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Reset deletes the file. Resetting an absent store is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset store: %w", err)
	}
	return nil
}
