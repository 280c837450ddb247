package httpadapter

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/observability/metrics"
)

type ingestFake struct {
	err      error
	gotName  string
	gotMime  string
	gotSize  int64
	gotBytes string
}

func (f *ingestFake) Upload(_ context.Context, filename, mimeType string, size int64, body io.Reader) (*domain.Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.gotName, f.gotMime, f.gotSize, f.gotBytes = filename, mimeType, size, string(raw)
	if f.err != nil {
		return nil, f.err
	}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Document{
		ID:               1,
		Filename:         "file_1_abcdef12.txt",
		OriginalFilename: filename,
		FileSize:         size,
		FileType:         "text/plain",
		Status:           domain.StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

type searchCall struct {
	query    string
	sort     domain.SortOrder
	page     int
	pageSize int
}

type searcherFake struct {
	page        domain.ResultPage
	suggestions []string
	err         error

	searches     []searchCall
	suggestQuery string
	suggestLimit int
}

func (f *searcherFake) Search(_ context.Context, query string, sortBy domain.SortOrder, page, pageSize int) (domain.ResultPage, error) {
	f.searches = append(f.searches, searchCall{query: query, sort: sortBy, page: page, pageSize: pageSize})
	if f.err != nil {
		return domain.ResultPage{}, f.err
	}
	return f.page, nil
}

func (f *searcherFake) Suggestions(_ context.Context, query string, limit int) ([]string, error) {
	f.suggestQuery, f.suggestLimit = query, limit
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestions, nil
}

type catalogFake struct {
	docs    map[int64]*domain.Document
	files   map[int64]string
	deleted []int64
	listArg [2]int
	err     error
}

func (f *catalogFake) List(_ context.Context, page, limit int) (*domain.DocumentList, error) {
	f.listArg = [2]int{page, limit}
	if f.err != nil {
		return nil, f.err
	}
	out := &domain.DocumentList{Documents: []domain.Document{}, Page: 1, Limit: 10}
	for _, doc := range f.docs {
		out.Documents = append(out.Documents, *doc)
	}
	out.Total = len(out.Documents)
	out.TotalPages = domain.TotalPages(out.Total, out.Limit)
	return out, nil
}

func (f *catalogFake) Get(_ context.Context, id int64) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", io.EOF)
	}
	return doc, nil
}

func (f *catalogFake) Delete(ctx context.Context, id int64) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *catalogFake) Download(ctx context.Context, id int64) (*domain.Download, io.ReadCloser, error) {
	doc, err := f.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	content := f.files[id]
	return &domain.Download{
		Filename:    doc.OriginalFilename,
		ContentType: "text/plain",
		Size:        int64(len(content)),
		StorageKey:  doc.FilePath,
	}, io.NopCloser(strings.NewReader(content)), nil
}

type routerDeps struct {
	ingest  *ingestFake
	search  *searcherFake
	catalog *catalogFake
	metrics *metrics.HTTPServerMetrics
}

func newDeps() routerDeps {
	return routerDeps{
		ingest:  &ingestFake{},
		search:  &searcherFake{page: domain.ResultPage{Items: []domain.ResultItem{}}},
		catalog: &catalogFake{docs: map[int64]*domain.Document{}, files: map[int64]string{}},
		metrics: metrics.NewHTTPServerMetrics("api"),
	}
}

func newTestHandler(t *testing.T, deps routerDeps, cfg Config) http.Handler {
	t.Helper()
	handler, err := NewRouter(deps.ingest, deps.search, deps.catalog, deps.metrics, cfg).Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	return handler
}
