// Package cache stores serialized counting results so repeated runs over the
// same inputs skip the dynamic program.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [BadgerCache]: an embedded Badger database
//   - [NullCache]: never stores anything
//
// All backends implement [Cache]. A miss is reported as (nil, false, nil);
// errors are reserved for backends that fail.
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 of the input files plus the
// settings that change the result:
//
//	k := cache.NewDefaultKeyer()
//	key := k.CountKey(cache.CountKeyOpts{
//	    Mode:          "count",
//	    Decomposition: cache.Hash(ntdBytes),
//	    Pattern:       cache.Hash(patternBytes),
//	    Target:        cache.Hash(targetBytes),
//	})
//
// [ScopedKeyer] prefixes every key, which keeps API and CLI entries apart
// when they share a Redis instance.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/homcount/pkg/errors"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendNone   = "none"
)

// Backends lists the valid backend names.
var Backends = []string{BackendFile, BackendRedis, BackendBadger, BackendNone}

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Dir       string // file and badger
	RedisAddr string
	TTL       time.Duration
}

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		c, err = NewFileCache(cfg.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, RedisConfig{Addr: cfg.RedisAddr})
	case BackendBadger:
		c, err = NewBadgerCache(cfg.Dir)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "open %s cache", cfg.Backend)
	}
	return c, nil
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error                     { return nil }
func (c *NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
