package domain

import (
	"strings"
	"time"
)

type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDate      SortOrder = "date"
)

// ParseSortOrder falls back to relevance for anything it does not recognise.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortDate:
		return SortDate
	default:
		return SortRelevance
	}
}

type MatchStrategy string

const (
	StrategySubstring MatchStrategy = "substring"
	StrategyRelevance MatchStrategy = "relevance"
)

// PageWindow is an offset/limit slice of an ordered candidate set.
type PageWindow struct {
	Offset int
	Limit  int
}

// Candidate is a document matched by the corpus store along with its score.
type Candidate struct {
	Document Document
	Score    float64
}

type CandidatePage struct {
	Candidates []Candidate
	Total      int
}

type ResultItem struct {
	DocumentID       int64     `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type"`
	CreatedAt        time.Time `json:"created_at"`
	Score            float64   `json:"score"`
	Preview          string    `json:"preview"`
}

type ResultPage struct {
	Items      []ResultItem  `json:"results"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Strategy   MatchStrategy `json:"strategy,omitempty"`
	ElapsedMS  float64       `json:"search_time_ms"`
	FromCache  bool          `json:"from_cache"`
}

// TotalPages returns ceil(total/pageSize), or 0 when pageSize is not positive.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
