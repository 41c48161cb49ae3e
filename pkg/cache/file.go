package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/homcount/pkg/observability"
)

// resultKinds are the subdirectories of a FileCache root. Every key lands in
// the directory of its kind, so usage can be reported per kind.
var resultKinds = []string{"count", "classes", "other"}

// FileCache stores one JSON file per entry under
//
//	<dir>/<kind>/<first two hex digits of the hashed key>/<rest>.json
type FileCache struct {
	dir string
}

// Usage summarizes the entries of one result kind.
type Usage struct {
	Entries int
	Bytes   int64
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, errors.New("cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry for key. Unreadable, foreign or expired entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	kind := keyType(key)
	path := c.path(key)

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false, nil
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return e.Data, true, nil
}

// Set writes the entry for key through a temp file and a rename, so readers
// never see a partial result.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Delete removes the entry for key. A missing entry is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every result kind directory. Files that do not belong to the
// cache are left alone.
func (c *FileCache) Clear(ctx context.Context) error {
	for _, kind := range resultKinds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(filepath.Join(c.dir, kind)); err != nil {
			return err
		}
	}
	return nil
}

// Usage counts the stored entries and their size on disk per result kind.
// Expired entries are included until a Get removes them.
func (c *FileCache) Usage(ctx context.Context) (map[string]Usage, error) {
	usage := make(map[string]Usage, len(resultKinds))
	for _, kind := range resultKinds {
		var u Usage
		err := filepath.WalkDir(filepath.Join(c.dir, kind), func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return fs.SkipDir
				}
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			u.Entries++
			u.Bytes += info.Size()
			return nil
		})
		if err != nil {
			return nil, err
		}
		usage[kind] = u
	}
	return usage, nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, keyType(key), h[:2], h[2:]+".json")
}

// keyType names the kind of result a key holds, ignoring any scope prefix.
func keyType(key string) string {
	for _, kind := range resultKinds[:2] {
		if strings.Contains(key, kind+":") {
			return kind
		}
	}
	return "other"
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
