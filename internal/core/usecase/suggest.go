package usecase

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

const (
	DefaultSuggestionLimit = 5

	minSuggestionQueryLength = 2
	minPhraseLength          = 3
	maxPhraseLength          = 50
	minFilenamePartLength    = 3

	// Phrase window: one word before the match through three words after it.
	phraseWordsBefore = 1
	phraseWordsAfter  = 3
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)
	phraseStripRe   = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	filenameSplitRe = regexp.MustCompile(`[._\-\s]+`)
)

// suggestionSet collects unique phrases in first-seen order up to a limit.
type suggestionSet struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newSuggestionSet(limit int) *suggestionSet {
	return &suggestionSet{
		limit: limit,
		seen:  make(map[string]struct{}, limit),
		items: make([]string, 0, limit),
	}
}

func (s *suggestionSet) full() bool {
	return len(s.items) >= s.limit
}

func (s *suggestionSet) add(phrase string) {
	if s.full() {
		return
	}
	if _, ok := s.seen[phrase]; ok {
		return
	}
	s.seen[phrase] = struct{}{}
	s.items = append(s.items, phrase)
}

// mineSuggestions scans candidate sentences and filenames, in order, for short phrases
// containing the query.
func mineSuggestions(candidates []domain.Candidate, query string, limit int) []string {
	set := newSuggestionSet(limit)
	needle := lowerRunes(query)

	for _, candidate := range candidates {
		if set.full() {
			break
		}
		minePhrases(set, candidate.Document.ContentText, needle)
		mineFilename(set, candidate.Document.OriginalFilename, needle)
	}
	return set.items
}

func minePhrases(set *suggestionSet, content, needle string) {
	for _, sentence := range sentenceSplitRe.Split(content, -1) {
		if set.full() {
			return
		}
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !strings.Contains(lowerRunes(sentence), needle) {
			continue
		}

		words := strings.Fields(sentence)
		for i, word := range words {
			if set.full() {
				return
			}
			if !strings.Contains(lowerRunes(word), needle) {
				continue
			}
			start := max(0, i-phraseWordsBefore)
			end := min(len(words), i+phraseWordsAfter+1)
			if phrase, ok := cleanPhrase(words[start:end]); ok {
				set.add(phrase)
			}
		}
	}
}

func mineFilename(set *suggestionSet, filename, needle string) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	for _, part := range filenameSplitRe.Split(stem, -1) {
		if set.full() {
			return
		}
		if utf8.RuneCountInString(part) < minFilenamePartLength {
			continue
		}
		if strings.Contains(lowerRunes(part), needle) {
			set.add(part)
		}
	}
}

func cleanPhrase(words []string) (string, bool) {
	stripped := phraseStripRe.ReplaceAllString(strings.Join(words, " "), "")
	phrase := strings.Join(strings.Fields(stripped), " ")
	n := utf8.RuneCountInString(phrase)
	if n < minPhraseLength || n > maxPhraseLength {
		return "", false
	}
	return phrase, true
}
