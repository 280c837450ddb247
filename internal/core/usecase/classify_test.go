package usecase

import (
	"testing"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		query string
		want  domain.MatchStrategy
	}{
		{query: "API", want: domain.StrategySubstring},
		{query: "pdf", want: domain.StrategySubstring},
		{query: "data", want: domain.StrategyRelevance},
		{query: "quarterly report", want: domain.StrategyRelevance},
		{query: "the quarterly report", want: domain.StrategySubstring},
		{query: "report Q3", want: domain.StrategySubstring},
		{query: "  report   summary  ", want: domain.StrategyRelevance},
		{query: "übung", want: domain.StrategyRelevance},
		{query: "日本語", want: domain.StrategySubstring},
	}
	for _, tc := range cases {
		if got := Classify(tc.query); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestSubstringPatterns(t *testing.T) {
	got := substringPatterns("  go API go x ")
	want := []string{"go API go x", "go", "API"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	single := substringPatterns("API")
	if len(single) != 1 || single[0] != "API" {
		t.Fatalf("expected single raw pattern, got %v", single)
	}
}
