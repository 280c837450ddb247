package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

// minRelevanceTokenLength mirrors the full-text engines' minimum indexed word length:
// shorter tokens are ignored by natural-language matching, so they need substring search.
const minRelevanceTokenLength = 4

// Classify picks the matching strategy for a non-empty query.
func Classify(query string) domain.MatchStrategy {
	if utf8.RuneCountInString(query) < minRelevanceTokenLength {
		return domain.StrategySubstring
	}
	for _, token := range strings.Fields(query) {
		if utf8.RuneCountInString(token) < minRelevanceTokenLength {
			return domain.StrategySubstring
		}
	}
	return domain.StrategyRelevance
}
