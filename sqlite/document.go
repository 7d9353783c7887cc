package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pinnacledb/qtd"
)

var _ qtd.DocumentService = (*DocumentService)(nil)

const documentColumns = "id, knowledge_base, source_url, title, content, content_hash, position, created_at"

// DocumentService implements qtd.DocumentService using SQLite.
type DocumentService struct {
	db *DB

	// Now returns the creation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db, Now: time.Now}
}

// CreateDocuments validates and inserts docs in one transaction. Either all
// documents are stored or none are. IDs, hashes and timestamps are assigned
// on the passed documents.
func (s *DocumentService) CreateDocuments(ctx context.Context, docs []*qtd.Document) error {
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
	}
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := s.Now().UTC()
	for _, doc := range docs {
		id := uuid.New().String()
		hash := HashContent(doc.Content)
		if _, err := stmt.ExecContext(ctx, id, string(doc.KnowledgeBase), doc.SourceURL, doc.Title,
			doc.Content, hash, doc.Position, now.Format(time.RFC3339Nano)); err != nil {
			return err
		}
		doc.ID = id
		doc.ContentHash = hash
		doc.CreatedAt = now
	}

	return tx.Commit()
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*qtd.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, qtd.Errorf(qtd.ENOTFOUND, "document not found")
	}
	return doc, err
}

// FindDocuments retrieves documents matching the filter, ordered by source and
// position within the source.
func (s *DocumentService) FindDocuments(ctx context.Context, filter qtd.DocumentFilter) ([]*qtd.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + documentColumns + ` FROM documents WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.KnowledgeBase != nil {
		query.WriteString(" AND knowledge_base = ?")
		args = append(args, string(*filter.KnowledgeBase))
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY source_url ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*qtd.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of stored documents per knowledge base.
// Knowledge bases without documents are absent from the map.
func (s *DocumentService) CountDocuments(ctx context.Context) (map[qtd.KnowledgeBase]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT knowledge_base, COUNT(*) FROM documents GROUP BY knowledge_base`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[qtd.KnowledgeBase]int)
	for rows.Next() {
		var kb string
		var n int
		if err := rows.Scan(&kb, &n); err != nil {
			return nil, err
		}
		counts[qtd.KnowledgeBase(kb)] = n
	}
	return counts, rows.Err()
}

// DeleteDocuments removes every document of kb.
func (s *DocumentService) DeleteDocuments(ctx context.Context, kb qtd.KnowledgeBase) (int, error) {
	if !kb.Valid() {
		return 0, qtd.Errorf(qtd.EINVALID, "unknown knowledge base %q", kb)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE knowledge_base = ?", string(kb))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*qtd.Document, error) {
	var doc qtd.Document
	var kb, createdAt string

	if err := row.Scan(&doc.ID, &kb, &doc.SourceURL, &doc.Title, &doc.Content,
		&doc.ContentHash, &doc.Position, &createdAt); err != nil {
		return nil, err
	}
	doc.KnowledgeBase = qtd.KnowledgeBase(kb)

	var err error
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
