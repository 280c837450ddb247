package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/resilience"
)

var candidateRowColumns = []string{
	"id", "filename", "original_filename", "file_path", "file_size", "file_type",
	"content_text", "status", "created_at", "updated_at", "score",
}

func newRepoWithMock(t *testing.T, options Options) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	// Page and count queries run concurrently.
	mock.MatchExpectationsInOrder(false)
	return NewDocumentRepository(db, options), mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	mock.ExpectQuery("SELECT id, filename, original_filename").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateReturnsGeneratedID(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs("a_1_x.txt", "a.txt", "a_1_x.txt", int64(5), "text/plain", "", "uploaded", "", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	doc := &domain.Document{
		Filename:         "a_1_x.txt",
		OriginalFilename: "a.txt",
		FilePath:         "a_1_x.txt",
		FileSize:         5,
		FileType:         "text/plain",
		Status:           domain.StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if doc.ID != 17 {
		t.Fatalf("expected id 17, got %d", doc.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs(int64(9), string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 9, domain.StatusProcessing, "")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveContentAndDelete(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	mock.ExpectExec("UPDATE documents SET content_text").
		WithArgs(int64(3), "hello", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SaveContent(context.Background(), 3, "hello"); err != nil {
		t.Fatalf("SaveContent() error = %v", err)
	}
	if err := repo.Delete(context.Background(), 3); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListReturnsPageAndTotal(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("ORDER BY created_at DESC, id DESC LIMIT").
		WithArgs(int64(5), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "filename", "original_filename", "file_path", "file_size", "file_type",
			"status", "error_message", "created_at", "updated_at",
		}).AddRow(int64(1), "o_1_x.txt", "o.txt", "o_1_x.txt", int64(2), "text/plain", "ready", "", created, created))

	docs, total, err := repo.List(context.Background(), domain.PageWindow{Offset: 10, Limit: 5})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 11 || len(docs) != 1 || docs[0].OriginalFilename != "o.txt" || docs[0].Status != domain.StatusReady {
		t.Fatalf("unexpected list %+v total=%d", docs, total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMatchSubstringBuildsPatternPerToken(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE status = 'ready'`).
		WithArgs("%go api%", "%go%", "%api%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`1::real AS score .*ILIKE .*ORDER BY created_at DESC, id DESC LIMIT`).
		WithArgs("%go api%", "%go%", "%api%", int64(2), int64(4)).
		WillReturnRows(sqlmock.NewRows(candidateRowColumns).
			AddRow(int64(5), "g_1_x.txt", "go.txt", "g_1_x.txt", int64(9), "text/plain", "go api notes", "ready", created, created, 1.0))

	page, err := repo.MatchSubstring(context.Background(), []string{"go api", "go", "api"}, domain.SortRelevance,
		domain.PageWindow{Offset: 4, Limit: 2})
	if err != nil {
		t.Fatalf("MatchSubstring() error = %v", err)
	}
	if page.Total != 7 || len(page.Candidates) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	got := page.Candidates[0]
	if got.Score != 1 || got.Document.ContentText != "go api notes" || got.Document.ID != 5 {
		t.Fatalf("unexpected candidate %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMatchSubstringEscapesWildcards(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`AS score`).
		WithArgs(`%50\%%`, int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows(candidateRowColumns))

	page, err := repo.MatchSubstring(context.Background(), []string{"50%"}, domain.SortDate,
		domain.PageWindow{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("MatchSubstring() error = %v", err)
	}
	if page.Total != 0 || len(page.Candidates) != 0 || page.Candidates == nil {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestMatchRelevanceOrdersByScore(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{TextSearchConfig: "simple"})
	defer done()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE .*plainto_tsquery`).
		WithArgs("simple", "quarterly report", "%quarterly report%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ts_rank\(search_vector, .*ORDER BY score DESC, created_at DESC, id DESC`).
		WithArgs("simple", "quarterly report", "%quarterly report%", int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows(candidateRowColumns).
			AddRow(int64(2), "q_1_x.pdf", "q.pdf", "q_1_x.pdf", int64(9), "application/pdf", "quarterly report", "ready", created, created, 0.0759))

	page, err := repo.MatchRelevance(context.Background(), "quarterly report", domain.SortRelevance,
		domain.PageWindow{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("MatchRelevance() error = %v", err)
	}
	if page.Total != 1 || page.Candidates[0].Score != 0.0759 {
		t.Fatalf("unexpected page %+v", page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMatchRelevanceByDate(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{TextSearchConfig: "bad config;"})
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("english", "quarterly report", "%quarterly report%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`AS score FROM documents WHERE .* ORDER BY created_at DESC, id DESC LIMIT`).
		WithArgs("english", "quarterly report", "%quarterly report%", int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows(candidateRowColumns))

	if _, err := repo.MatchRelevance(context.Background(), "quarterly report", domain.SortDate,
		domain.PageWindow{Offset: 0, Limit: 10}); err != nil {
		t.Fatalf("MatchRelevance() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMatchOpensBreakerAfterStoreFailures(t *testing.T) {
	policy := resilience.StoreConfig()
	policy.Breaker.MinRequests = 1
	policy.Breaker.OpenTimeout = time.Minute
	exec := resilience.NewExecutor(policy)
	repo, mock, done := newRepoWithMock(t, Options{Executor: exec})
	defer done()

	storeErr := errors.New("connection refused")
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(storeErr)
	mock.ExpectQuery(`AS score`).WillReturnError(storeErr)

	window := domain.PageWindow{Offset: 0, Limit: 10}
	_, err := repo.MatchSubstring(context.Background(), []string{"api"}, domain.SortDate, window)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}

	_, err = repo.MatchSubstring(context.Background(), []string{"api"}, domain.SortDate, window)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary from open breaker, got %v", err)
	}
}

func TestMatchRelevanceMatchesAnyQueryTerm(t *testing.T) {
	repo, mock, done := newRepoWithMock(t, Options{})
	defer done()

	anyTerm := `replace\(plainto_tsquery\(\$1::regconfig, \$2\)::text, '&', '\|'\)::tsquery`
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE .*search_vector @@ ` + anyTerm).
		WithArgs("english", "machine learning", "%machine learning%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ts_rank\(search_vector, ` + anyTerm + `\)`).
		WithArgs("english", "machine learning", "%machine learning%", int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows(candidateRowColumns))

	page, err := repo.MatchRelevance(context.Background(), "machine learning", domain.SortRelevance,
		domain.PageWindow{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("MatchRelevance() error = %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("unexpected total %d", page.Total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
