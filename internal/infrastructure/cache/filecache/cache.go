// Package filecache stores cache entries as one JSON file per key.
package filecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

const fileSuffix = ".cache"

type fileEntry struct {
	ExpiresAt int64  `json:"expires_at"`
	Value     []byte `json:"value"`
}

type Cache struct {
	dir string
	now func() time.Time
}

func New(dir string) (*Cache, error) {
	if dir == "" {
		dir = "./data/cache"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, now: time.Now}, nil
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+fileSuffix)
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("decode cache file: %w", err)
	}
	if c.now().UnixNano() > e.ExpiresAt {
		_ = os.Remove(path)
		return nil, domain.ErrCacheMiss
	}
	return e.Value, nil
}

// Set writes through a temp file and rename so readers never see a partial entry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	raw, err := json.Marshal(fileEntry{ExpiresAt: c.now().Add(ttl).UnixNano(), Value: value})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, c.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish cache file: %w", err)
	}
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

func (c *Cache) Clear(context.Context) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+fileSuffix))
	if err != nil {
		return fmt.Errorf("list cache files: %w", err)
	}
	var errs []error
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
