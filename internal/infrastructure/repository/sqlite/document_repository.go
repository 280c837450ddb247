// Package sqlite is an embedded corpus store backed by modernc.org/sqlite with an FTS5
// index over document content.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	file_type TEXT NOT NULL,
	content_text TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
	content_text,
	content='documents',
	content_rowid='id',
	tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, content_text) VALUES (new.id, new.content_text);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, content_text) VALUES ('delete', old.id, old.content_text);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF content_text ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, content_text) VALUES ('delete', old.id, old.content_text);
	INSERT INTO documents_fts(rowid, content_text) VALUES (new.id, new.content_text);
END;
`

// documentRow is the storage shape of a document. Timestamps are unix nanoseconds.
type documentRow struct {
	ID               int64   `db:"id"`
	Filename         string  `db:"filename"`
	OriginalFilename string  `db:"original_filename"`
	FilePath         string  `db:"file_path"`
	FileSize         int64   `db:"file_size"`
	FileType         string  `db:"file_type"`
	ContentText      string  `db:"content_text"`
	Status           string  `db:"status"`
	ErrorMessage     string  `db:"error_message"`
	CreatedAt        int64   `db:"created_at"`
	UpdatedAt        int64   `db:"updated_at"`
	Score            float64 `db:"score"`
}

func (r documentRow) toDomain() domain.Document {
	return domain.Document{
		ID:               r.ID,
		Filename:         r.Filename,
		OriginalFilename: r.OriginalFilename,
		FilePath:         r.FilePath,
		FileSize:         r.FileSize,
		FileType:         r.FileType,
		ContentText:      r.ContentText,
		Status:           domain.DocumentStatus(r.Status),
		Error:            r.ErrorMessage,
		CreatedAt:        time.Unix(0, r.CreatedAt).UTC(),
		UpdatedAt:        time.Unix(0, r.UpdatedAt).UTC(),
	}
}

type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// OpenDB opens path (or ":memory:") with a single connection; sqlite has one writer
// and an in-memory database exists per connection.
func OpenDB(path string) (*sqlx.DB, error) {
	if path == "" {
		path = "./data/documents.db"
	}
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	row := documentRow{
		Filename:         doc.Filename,
		OriginalFilename: doc.OriginalFilename,
		FilePath:         doc.FilePath,
		FileSize:         doc.FileSize,
		FileType:         doc.FileType,
		ContentText:      doc.ContentText,
		Status:           string(doc.Status),
		ErrorMessage:     doc.Error,
		CreatedAt:        doc.CreatedAt.UnixNano(),
		UpdatedAt:        doc.UpdatedAt.UnixNano(),
	}
	result, err := r.db.NamedExecContext(ctx, `
INSERT INTO documents (
	filename, original_filename, file_path, file_size, file_type, content_text, status, error_message, created_at, updated_at
) VALUES (
	:filename, :original_filename, :file_path, :file_size, :file_type, :content_text, :status, :error_message, :created_at, :updated_at
)`, row)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	doc.ID = id
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var row documentRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, filename, original_filename, file_path, file_size, file_type, content_text, status, error_message, created_at, updated_at
FROM documents
WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	doc := row.toDomain()
	return &doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, window domain.PageWindow) ([]domain.Document, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	var rows []documentRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT id, filename, original_filename, file_path, file_size, file_type, status, error_message, created_at, updated_at
FROM documents
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`, window.Limit, window.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDomain())
	}
	return docs, total, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return ensureAffected(result, "delete document", id)
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id int64, status domain.DocumentStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status), errMessage, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return ensureAffected(result, "update document status", id)
}

func (r *DocumentRepository) SaveContent(ctx context.Context, id int64, text string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents SET content_text = ?, updated_at = ? WHERE id = ?`,
		text, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("save document content: %w", err)
	}
	return ensureAffected(result, "save document content", id)
}

func ensureAffected(result sql.Result, operation string, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%d", id))
	}
	return nil
}
