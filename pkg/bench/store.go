package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matzehuels/homcount/pkg/errors"
)

// Store persists benchmark records.
type Store interface {
	// Save appends records. Records of one run may be saved in batches.
	Save(ctx context.Context, records []Record) error

	// List returns the records of runID, or every record when runID is
	// empty, oldest first.
	List(ctx context.Context, runID string) ([]Record, error)

	// Close releases the backend.
	Close() error
}

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Stores lists the store backend names.
var Stores = []string{StoreFile, StoreMongo}

// FileStore keeps one JSON file per run in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store in baseDir.
// If baseDir is empty, defaults to ~/.config/homcount/runs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "homcount", "runs")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) runPath(runID string) string {
	return filepath.Join(s.baseDir, runID+".json")
}

func (s *FileStore) Save(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRun := make(map[string][]Record)
	for _, r := range records {
		if r.RunID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "record without run id")
		}
		byRun[r.RunID] = append(byRun[r.RunID], r)
	}

	for runID, batch := range byRun {
		existing, err := s.read(s.runPath(runID))
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(append(existing, batch...), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		if err := os.WriteFile(s.runPath(runID), data, 0o600); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "write run %s", runID)
		}
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if runID != "" {
		recs, err := s.read(s.runPath(runID))
		if err != nil {
			return nil, err
		}
		if recs == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "run %s", runID)
		}
		return recs, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read run dir: %w", err)
	}
	var all []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		recs, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	slices.SortStableFunc(all, func(a, b Record) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return all, nil
}

// read returns nil for a missing file.
func (s *FileStore) read(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read run file: %w", err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse %s", filepath.Base(path))
	}
	return recs, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the run files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

// StoreConfig selects a store backend.
type StoreConfig struct {
	Backend string
	Dir     string
	Mongo   MongoConfig
}

// OpenStore returns the backend named by cfg.Backend.
func OpenStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Backend {
	case StoreFile, "":
		s, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open file store")
		}
		return s, nil
	case StoreMongo:
		s, err := NewMongoStore(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown bench store %q", cfg.Backend)
}
