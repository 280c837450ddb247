package usecase

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

type SearchConfig struct {
	PreviewLength          int
	DefaultPageSize        int
	MaxPageSize            int
	DefaultSuggestionLimit int
	MaxSuggestionLimit     int
}

func (c SearchConfig) normalize() SearchConfig {
	out := c
	if out.PreviewLength <= 0 {
		out.PreviewLength = DefaultPreviewLength
	}
	if out.DefaultPageSize <= 0 {
		out.DefaultPageSize = 10
	}
	if out.MaxPageSize < out.DefaultPageSize {
		out.MaxPageSize = max(100, out.DefaultPageSize)
	}
	if out.DefaultSuggestionLimit <= 0 {
		out.DefaultSuggestionLimit = DefaultSuggestionLimit
	}
	if out.MaxSuggestionLimit < out.DefaultSuggestionLimit {
		out.MaxSuggestionLimit = max(20, out.DefaultSuggestionLimit)
	}
	return out
}

type SearchUseCase struct {
	store ports.CorpusStore
	cache *ResultCache
	cfg   SearchConfig
	now   func() time.Time
}

func NewSearchUseCase(store ports.CorpusStore, cache *ResultCache, cfg SearchConfig) *SearchUseCase {
	return &SearchUseCase{
		store: store,
		cache: cache,
		cfg:   cfg.normalize(),
		now:   time.Now,
	}
}

func (uc *SearchUseCase) Search(
	ctx context.Context,
	query string,
	sortBy domain.SortOrder,
	page, pageSize int,
) (domain.ResultPage, error) {
	if strings.TrimSpace(query) == "" {
		return domain.ResultPage{Items: []domain.ResultItem{}}, nil
	}

	start := uc.now()
	page, pageSize = uc.normalizePaging(page, pageSize)
	if sortBy != domain.SortDate {
		sortBy = domain.SortRelevance
	}

	key := Fingerprint(query, sortBy, page, pageSize)
	if cached, ok := uc.cache.Get(ctx, key); ok {
		cached.FromCache = true
		cached.ElapsedMS = elapsedMillis(uc.now().Sub(start))
		return cached, nil
	}

	strategy := Classify(query)
	window := domain.PageWindow{Offset: (page - 1) * pageSize, Limit: pageSize}
	candidates, err := finderFor(strategy).find(ctx, uc.store, query, sortBy, window)
	if err != nil {
		return domain.ResultPage{}, domain.WrapError(domain.ErrSearchUnavailable, "search documents", err)
	}

	result := domain.ResultPage{
		Items:      uc.buildItems(candidates.Candidates, query),
		Total:      candidates.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: domain.TotalPages(candidates.Total, pageSize),
		Strategy:   strategy,
	}
	uc.cache.Put(ctx, key, result)

	result.ElapsedMS = elapsedMillis(uc.now().Sub(start))
	return result, nil
}

func (uc *SearchUseCase) Suggestions(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQueryLength {
		return []string{}, nil
	}
	limit = clampLimit(limit, uc.cfg.DefaultSuggestionLimit, uc.cfg.MaxSuggestionLimit)

	window := domain.PageWindow{Offset: 0, Limit: limit * 3}
	candidates, err := finderFor(Classify(query)).find(ctx, uc.store, query, domain.SortRelevance, window)
	if err != nil {
		return nil, domain.WrapError(domain.ErrSearchUnavailable, "suggest phrases", err)
	}
	return mineSuggestions(candidates.Candidates, query, limit), nil
}

func (uc *SearchUseCase) buildItems(candidates []domain.Candidate, query string) []domain.ResultItem {
	items := make([]domain.ResultItem, 0, len(candidates))
	for _, candidate := range candidates {
		doc := candidate.Document
		snippet := ExtractSnippet(doc.ContentText, query, uc.cfg.PreviewLength)
		items = append(items, domain.ResultItem{
			DocumentID:       doc.ID,
			Filename:         doc.Filename,
			OriginalFilename: doc.OriginalFilename,
			FileSize:         doc.FileSize,
			FileType:         doc.FileType,
			CreatedAt:        doc.CreatedAt,
			Score:            candidate.Score,
			Preview:          Highlight(snippet, query),
		})
	}
	return items
}

func (uc *SearchUseCase) normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, clampLimit(pageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)
}

func clampLimit(limit, fallback, ceiling int) int {
	if limit < 1 {
		return fallback
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}

func elapsedMillis(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}
