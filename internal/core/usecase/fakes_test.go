package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

// docRepoFake is an in-memory DocumentRepository.
type docRepoFake struct {
	mu          sync.Mutex
	nextID      int64
	docs        map[int64]*domain.Document
	createErr   error
	getErr      error
	deleteErr   error
	saveErr     error
	failStatus  error
	statusCalls []statusCall
	listWindow  domain.PageWindow
}

func newDocRepoFake(docs ...domain.Document) *docRepoFake {
	f := &docRepoFake{docs: map[int64]*domain.Document{}}
	for i := range docs {
		doc := docs[i]
		f.docs[doc.ID] = &doc
		f.nextID = max(f.nextID, doc.ID)
	}
	return f
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	doc.ID = f.nextID
	copyDoc := *doc
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id int64) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *docRepoFake) List(_ context.Context, window domain.PageWindow) ([]domain.Document, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listWindow = window
	out := make([]domain.Document, 0, len(f.docs))
	for id := int64(1); id <= f.nextID; id++ {
		if doc, ok := f.docs[id]; ok {
			out = append(out, *doc)
		}
	}
	total := len(out)
	if window.Offset >= total {
		return nil, total, nil
	}
	end := min(total, window.Offset+window.Limit)
	return out[window.Offset:end], total, nil
}

func (f *docRepoFake) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.docs, id)
	return nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, id int64, status domain.DocumentStatus, errMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatus != nil {
		return f.failStatus
	}
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (f *docRepoFake) SaveContent(_ context.Context, id int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.ContentText = text
	return nil
}

type storageFake struct {
	objects   map[string][]byte
	saveErr   error
	deleteErr error
	deleted   []string
}

func newStorageFake() *storageFake {
	return &storageFake{objects: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	f.objects[key] = raw
	return int64(len(raw)), nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.objects[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type queueFake struct {
	published []int64
	err       error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, int64) error) error {
	return errors.New("not implemented")
}

type invalidatorFake struct {
	calls int
}

func (f *invalidatorFake) Invalidate(context.Context) { f.calls++ }

type corpusCall struct {
	strategy domain.MatchStrategy
	patterns []string
	query    string
	order    domain.SortOrder
	window   domain.PageWindow
}

// corpusFake records every match call and returns a canned page.
type corpusFake struct {
	page  domain.CandidatePage
	err   error
	calls []corpusCall
}

func (f *corpusFake) MatchSubstring(_ context.Context, patterns []string, order domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error) {
	f.calls = append(f.calls, corpusCall{strategy: domain.StrategySubstring, patterns: patterns, order: order, window: window})
	return f.page, f.err
}

func (f *corpusFake) MatchRelevance(_ context.Context, query string, order domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error) {
	f.calls = append(f.calls, corpusCall{strategy: domain.StrategyRelevance, query: query, order: order, window: window})
	return f.page, f.err
}

// cacheStoreFake is a map-backed CacheStore with a controllable clock.
type cacheStoreFake struct {
	entries map[string]cacheEntryFake
	now     time.Time
	getErr  error
	setErr  error
	gets    int
	sets    int
	clears  int
}

type cacheEntryFake struct {
	value     []byte
	expiresAt time.Time
}

func newCacheStoreFake() *cacheStoreFake {
	return &cacheStoreFake{entries: map[string]cacheEntryFake{}, now: time.Unix(1_700_000_000, 0)}
}

func (f *cacheStoreFake) Get(_ context.Context, key string) ([]byte, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[key]
	if !ok || f.now.After(entry.expiresAt) {
		delete(f.entries, key)
		return nil, domain.ErrCacheMiss
	}
	return entry.value, nil
}

func (f *cacheStoreFake) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = cacheEntryFake{value: value, expiresAt: f.now.Add(ttl)}
	return nil
}

func (f *cacheStoreFake) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *cacheStoreFake) Clear(context.Context) error {
	f.clears++
	f.entries = map[string]cacheEntryFake{}
	return nil
}

type processorFake struct {
	ids []int64
	err error
}

func (f *processorFake) ProcessByID(_ context.Context, id int64) error {
	f.ids = append(f.ids, id)
	return f.err
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	return f.text, f.err
}
