package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

const (
	DefaultSearchCacheTTL = 5 * time.Minute

	searchCacheKeyPrefix = "search:"
)

// ResultCache stores computed search pages keyed by request fingerprint.
// Substrate failures are logged and treated as a miss or a no-op.
type ResultCache struct {
	store ports.CacheStore
	ttl   time.Duration
}

// NewResultCache returns a cache over store. A nil store disables caching.
func NewResultCache(store ports.CacheStore, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultSearchCacheTTL
	}
	return &ResultCache{store: store, ttl: ttl}
}

// Fingerprint hashes the normalized request tuple. Only ASCII case is folded: sqlite LIKE
// folds nothing else, so queries differing in non-ASCII case may match different documents.
func Fingerprint(query string, sortBy domain.SortOrder, page, pageSize int) string {
	normalized := strings.Map(foldASCII, strings.Join(strings.Fields(query), " "))
	raw := fmt.Sprintf("%s\x1f%s\x1f%d\x1f%d", normalized, sortBy, page, pageSize)
	sum := sha256.Sum256([]byte(raw))
	return searchCacheKeyPrefix + hex.EncodeToString(sum[:])
}

func foldASCII(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func (c *ResultCache) enabled() bool {
	return c != nil && c.store != nil
}

func (c *ResultCache) Get(ctx context.Context, key string) (domain.ResultPage, bool) {
	if !c.enabled() {
		return domain.ResultPage{}, false
	}

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			slog.Warn("search_cache_error", "op", "get", "key", key, "error", err)
		}
		return domain.ResultPage{}, false
	}

	var page domain.ResultPage
	if err := json.Unmarshal(data, &page); err != nil {
		slog.Warn("search_cache_error", "op", "decode", "key", key, "error", err)
		return domain.ResultPage{}, false
	}
	if page.Items == nil {
		page.Items = []domain.ResultItem{}
	}
	return page, true
}

// Put stores a snapshot of page without its per-request metadata.
func (c *ResultCache) Put(ctx context.Context, key string, page domain.ResultPage) {
	if !c.enabled() {
		return
	}

	page.FromCache = false
	page.ElapsedMS = 0
	data, err := json.Marshal(page)
	if err != nil {
		slog.Warn("search_cache_error", "op", "encode", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		slog.Warn("search_cache_error", "op", "set", "key", key, "error", err)
	}
}

func (c *ResultCache) Delete(ctx context.Context, key string) {
	if !c.enabled() {
		return
	}
	if err := c.store.Delete(ctx, key); err != nil {
		slog.Warn("search_cache_error", "op", "delete", "key", key, "error", err)
	}
}

// Invalidate drops every cached page.
func (c *ResultCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		slog.Warn("search_cache_error", "op", "clear", "error", err)
	}
}
