package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

const minSubstringTokenLength = 2

// candidateFinder is the per-strategy retrieval step of a search.
type candidateFinder interface {
	find(ctx context.Context, store ports.CorpusStore, query string, sortBy domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error)
}

func finderFor(strategy domain.MatchStrategy) candidateFinder {
	if strategy == domain.StrategyRelevance {
		return relevanceFinder{}
	}
	return substringFinder{}
}

type substringFinder struct{}

// Substring matches carry no ranking signal, so both sort modes order by date.
func (substringFinder) find(ctx context.Context, store ports.CorpusStore, query string, _ domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error) {
	return store.MatchSubstring(ctx, substringPatterns(query), domain.SortDate, window)
}

type relevanceFinder struct{}

func (relevanceFinder) find(ctx context.Context, store ports.CorpusStore, query string, sortBy domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error) {
	return store.MatchRelevance(ctx, strings.TrimSpace(query), sortBy, window)
}

// substringPatterns returns the raw query followed, for multi-token queries, by every
// distinct token of at least two characters.
func substringPatterns(query string) []string {
	raw := strings.TrimSpace(query)
	patterns := []string{raw}
	tokens := strings.Fields(raw)
	if len(tokens) < 2 {
		return patterns
	}

	seen := map[string]struct{}{strings.ToLower(raw): {}}
	for _, token := range tokens {
		if utf8.RuneCountInString(token) < minSubstringTokenLength {
			continue
		}
		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		patterns = append(patterns, token)
	}
	return patterns
}
