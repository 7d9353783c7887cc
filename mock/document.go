package mock

import (
	"context"

	"github.com/pinnacledb/qtd"
)

var _ qtd.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of qtd.DocumentService.
type DocumentService struct {
	CreateDocumentsFn  func(ctx context.Context, docs []*qtd.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*qtd.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter qtd.DocumentFilter) ([]*qtd.Document, error)
	CountDocumentsFn   func(ctx context.Context) (map[qtd.KnowledgeBase]int, error)
	DeleteDocumentsFn  func(ctx context.Context, kb qtd.KnowledgeBase) (int, error)
}

func (s *DocumentService) CreateDocuments(ctx context.Context, docs []*qtd.Document) error {
	return s.CreateDocumentsFn(ctx, docs)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*qtd.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter qtd.DocumentFilter) ([]*qtd.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) CountDocuments(ctx context.Context) (map[qtd.KnowledgeBase]int, error) {
	return s.CountDocumentsFn(ctx)
}

func (s *DocumentService) DeleteDocuments(ctx context.Context, kb qtd.KnowledgeBase) (int, error) {
	return s.DeleteDocumentsFn(ctx, kb)
}

var _ qtd.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of qtd.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context, kb qtd.KnowledgeBase, root string) ([]*qtd.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context, kb qtd.KnowledgeBase, root string) ([]*qtd.Document, error) {
	return l.LoadFn(ctx, kb, root)
}
