package qtd

import (
	"context"
	"time"
)

// Document is one stored snippet of a knowledge base's documentation.
type Document struct {
	ID            string        `json:"id"`
	KnowledgeBase KnowledgeBase `json:"knowledgeBase"`
	SourceURL     string        `json:"sourceUrl"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	ContentHash   string        `json:"contentHash"`
	Position      int           `json:"position"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.KnowledgeBase == "" {
		return Errorf(EINVALID, "document knowledge base required")
	}
	if !d.KnowledgeBase.Valid() {
		return Errorf(EINVALID, "unknown knowledge base %q", d.KnowledgeBase)
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// CreateDocuments stores documents in a single batch.
	CreateDocuments(ctx context.Context, docs []*Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// CountDocuments returns the number of documents stored per knowledge base.
	CountDocuments(ctx context.Context) (map[KnowledgeBase]int, error)

	// DeleteDocuments removes all documents of a knowledge base and returns how
	// many were removed.
	DeleteDocuments(ctx context.Context, kb KnowledgeBase) (int, error)
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID            *string        `json:"id"`
	KnowledgeBase *KnowledgeBase `json:"knowledgeBase"`
	SourceURL     *string        `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentLoader reads documentation from a location and returns it as
// unsaved documents of a knowledge base.
type DocumentLoader interface {
	Load(ctx context.Context, kb KnowledgeBase, root string) ([]*Document, error)
}
