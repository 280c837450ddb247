package sqlite

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/repository/sqlutil"
)

const candidateColumns = `d.id, d.filename, d.original_filename, d.file_path, d.file_size, d.file_type,
	d.content_text, d.status, d.error_message, d.created_at, d.updated_at`

var ftsWordRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// MatchSubstring uses LIKE, which folds ASCII case only.
func (r *DocumentRepository) MatchSubstring(
	ctx context.Context,
	patterns []string,
	_ domain.SortOrder,
	window domain.PageWindow,
) (domain.CandidatePage, error) {
	if len(patterns) == 0 {
		return domain.CandidatePage{Candidates: []domain.Candidate{}}, nil
	}

	clauses := make([]string, 0, len(patterns))
	args := make([]any, 0, 2*len(patterns))
	for _, pattern := range patterns {
		like := sqlutil.ContainsPattern(pattern)
		clauses = append(clauses, `d.content_text LIKE ? ESCAPE '\' OR d.original_filename LIKE ? ESCAPE '\'`)
		args = append(args, like, like)
	}

	from := `FROM documents d WHERE d.status = 'ready' AND (` + strings.Join(clauses, " OR ") + `)`
	return r.match(ctx, "1.0", from, "d.created_at DESC, d.id DESC", args, window)
}

// MatchRelevance ranks content matches with FTS5 bm25, negated so higher is better.
// A document matches when it holds any query word.
func (r *DocumentRepository) MatchRelevance(
	ctx context.Context,
	query string,
	order domain.SortOrder,
	window domain.PageWindow,
) (domain.CandidatePage, error) {
	like := sqlutil.ContainsPattern(query)
	ftsQuery := ftsMatchExpression(query)

	orderBy := "score DESC, d.created_at DESC, d.id DESC"
	if order == domain.SortDate {
		orderBy = "d.created_at DESC, d.id DESC"
	}

	// Queries without indexable words can only match on filename.
	if ftsQuery == "" {
		from := `FROM documents d WHERE d.status = 'ready' AND d.original_filename LIKE ? ESCAPE '\'`
		return r.match(ctx, "0.0", from, orderBy, []any{like}, window)
	}

	from := `FROM documents d
LEFT JOIN (
	SELECT rowid AS id, -bm25(documents_fts) AS score FROM documents_fts WHERE documents_fts MATCH ?
) m ON m.id = d.id
WHERE d.status = 'ready' AND (m.id IS NOT NULL OR d.original_filename LIKE ? ESCAPE '\')`
	return r.match(ctx, "COALESCE(m.score, 0.0)", from, orderBy, []any{ftsQuery, like}, window)
}

// match runs the page and count queries. The single sqlite connection serializes them.
func (r *DocumentRepository) match(
	ctx context.Context,
	score, from, orderBy string,
	args []any,
	window domain.PageWindow,
) (domain.CandidatePage, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) `+from, args...); err != nil {
		return domain.CandidatePage{}, fmt.Errorf("count candidates: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s, %s AS score %s ORDER BY %s LIMIT ? OFFSET ?`, candidateColumns, score, from, orderBy)
	pageArgs := append(append([]any{}, args...), window.Limit, window.Offset)

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, pageArgs...); err != nil {
		return domain.CandidatePage{}, fmt.Errorf("query candidates: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, domain.Candidate{Document: row.toDomain(), Score: row.Score})
	}
	return domain.CandidatePage{Candidates: candidates, Total: total}, nil
}

// ftsMatchExpression quotes every word of query as an FTS5 string and ORs them.
func ftsMatchExpression(query string) string {
	words := ftsWordRe.FindAllString(query, -1)
	quoted := make([]string, 0, len(words))
	for _, word := range words {
		quoted = append(quoted, `"`+word+`"`)
	}
	return strings.Join(quoted, " OR ")
}
