package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/silindokuhleL/document-search-portal/internal/config"
	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		StoreDriver:             "sqlite",
		SQLitePath:              filepath.Join(dir, "documents.db"),
		CacheDriver:             "memory",
		SearchCacheTTL:          time.Minute,
		SearchPreviewLength:     500,
		SearchDefaultPageSize:   10,
		SearchMaxPageSize:       100,
		SuggestionsDefaultLimit: 5,
		SuggestionsMaxLimit:     20,
		StoragePath:             filepath.Join(dir, "storage"),
		MaxUploadBytes:          1 << 20,
		AllowedExtensions:       []string{"txt"},
	}
}

func TestInlinePipelineUploadThenSearch(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	body := "Minutes\r\n\r\n\r\n\r\nThe quarterly budget review is due on Friday."
	doc, err := app.IngestUC.Upload(ctx, "minutes.txt", "text/plain", int64(len(body)), strings.NewReader(body))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != domain.StatusReady {
		t.Fatalf("inline processing should finish before upload returns, status=%s", doc.Status)
	}

	page, err := app.SearchUC.Search(ctx, "budget review", domain.SortRelevance, 1, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].DocumentID != doc.ID {
		t.Fatalf("unexpected page %+v", page)
	}
	if !strings.Contains(page.Items[0].Preview, "<mark>budget</mark>") {
		t.Fatalf("expected highlighted preview, got %q", page.Items[0].Preview)
	}

	again, err := app.SearchUC.Search(ctx, "budget review", domain.SortRelevance, 1, 10)
	if err != nil || !again.FromCache {
		t.Fatalf("expected cached repeat, got %+v err=%v", again, err)
	}

	if err := app.CatalogUC.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	after, err := app.SearchUC.Search(ctx, "budget review", domain.SortRelevance, 1, 10)
	if err != nil {
		t.Fatalf("Search() after delete error = %v", err)
	}
	if after.FromCache || after.Total != 0 {
		t.Fatalf("delete should invalidate the cache, got %+v", after)
	}
}

func TestNewRejectsUnknownDrivers(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "mongo"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}

	cfg = testConfig(t)
	cfg.CacheDriver = "memcached"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown cache driver")
	}
}

func TestCacheCanBeDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheDriver = "none"
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	body := "alpha beta gamma"
	if _, err := app.IngestUC.Upload(ctx, "a.txt", "text/plain", int64(len(body)), strings.NewReader(body)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		page, err := app.SearchUC.Search(ctx, "beta", domain.SortRelevance, 1, 10)
		if err != nil || page.FromCache || page.Total != 1 {
			t.Fatalf("unexpected page %+v err=%v", page, err)
		}
	}
}
