package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/repository/sqlutil"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/resilience"
)

const candidateColumns = `id, filename, original_filename, file_path, file_size, file_type, content_text, status, created_at, updated_at`

// matchQuery is a predicate over ready documents plus the score expression and ordering
// that go with it.
type matchQuery struct {
	where   string
	score   string
	orderBy string
	args    []any
}

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
	args := make([]any, 0, len(patterns))
	for i, pattern := range patterns {
		n := i + 1
		clauses = append(clauses, fmt.Sprintf(
			`content_text ILIKE $%d ESCAPE '\' OR original_filename ILIKE $%d ESCAPE '\'`, n, n,
		))
		args = append(args, sqlutil.ContainsPattern(pattern))
	}

	q := matchQuery{
		where:   "status = 'ready' AND (" + strings.Join(clauses, " OR ") + ")",
		score:   "1::real",
		orderBy: "created_at DESC, id DESC",
		args:    args,
	}
	return r.guardedMatch(ctx, "postgres.match_substring", q, window)
}

func (r *DocumentRepository) MatchRelevance(
	ctx context.Context,
	query string,
	order domain.SortOrder,
	window domain.PageWindow,
) (domain.CandidatePage, error) {
	// Any query term matches; ts_rank puts documents holding more of them first.
	const tsQuery = `replace(plainto_tsquery($1::regconfig, $2)::text, '&', '|')::tsquery`

	q := matchQuery{
		where: "status = 'ready' AND (search_vector @@ " + tsQuery +
			` OR original_filename ILIKE $3 ESCAPE '\')`,
		score: "CASE WHEN search_vector @@ " + tsQuery +
			" THEN ts_rank(search_vector, " + tsQuery + ") ELSE 0 END",
		orderBy: "score DESC, created_at DESC, id DESC",
		args:    []any{r.tsConfig, query, sqlutil.ContainsPattern(query)},
	}
	if order == domain.SortDate {
		q.orderBy = "created_at DESC, id DESC"
	}
	return r.guardedMatch(ctx, "postgres.match_relevance", q, window)
}

func (r *DocumentRepository) guardedMatch(
	ctx context.Context,
	operation string,
	q matchQuery,
	window domain.PageWindow,
) (domain.CandidatePage, error) {
	if r.executor == nil {
		return r.match(ctx, q, window)
	}

	var page domain.CandidatePage
	err := r.executor.Execute(ctx, operation, func(ctx context.Context) error {
		var err error
		page, err = r.match(ctx, q, window)
		return err
	}, classifyStoreError)
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return domain.CandidatePage{}, domain.WrapError(domain.ErrTemporary, operation, err)
		}
		return domain.CandidatePage{}, err
	}
	return page, nil
}

// match runs the windowed page query and the unwindowed count concurrently.
func (r *DocumentRepository) match(ctx context.Context, q matchQuery, window domain.PageWindow) (domain.CandidatePage, error) {
	var (
		candidates []domain.Candidate
		total      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n := len(q.args)
		query := fmt.Sprintf(`
SELECT %s, %s AS score
FROM documents
WHERE %s
ORDER BY %s
LIMIT $%d OFFSET $%d
`, candidateColumns, q.score, q.where, q.orderBy, n+1, n+2)

		args := append(append([]any{}, q.args...), window.Limit, window.Offset)
		rows, err := r.db.QueryContext(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("query candidates: %w", err)
		}
		defer rows.Close()

		candidates, err = scanCandidates(rows, window.Limit)
		return err
	})
	g.Go(func() error {
		query := `SELECT COUNT(*) FROM documents WHERE ` + q.where
		if err := r.db.QueryRowContext(gctx, query, q.args...).Scan(&total); err != nil {
			return fmt.Errorf("count candidates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.CandidatePage{}, err
	}

	return domain.CandidatePage{Candidates: candidates, Total: total}, nil
}

func scanCandidates(rows *sql.Rows, capacity int) ([]domain.Candidate, error) {
	out := make([]domain.Candidate, 0, max(capacity, 0))
	for rows.Next() {
		var c domain.Candidate
		var status string
		if err := rows.Scan(
			&c.Document.ID, &c.Document.Filename, &c.Document.OriginalFilename, &c.Document.FilePath,
			&c.Document.FileSize, &c.Document.FileType, &c.Document.ContentText, &status,
			&c.Document.CreatedAt, &c.Document.UpdatedAt, &c.Score,
		); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		c.Document.Status = domain.DocumentStatus(status)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

func classifyStoreError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
