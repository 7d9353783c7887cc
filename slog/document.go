package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pinnacledb/qtd"
)

var _ qtd.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with debug logging.
type LoggingDocumentService struct {
	next   qtd.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next qtd.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

func (s *LoggingDocumentService) CreateDocuments(ctx context.Context, docs []*qtd.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create documents",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateDocuments(ctx, docs)
}

func (s *LoggingDocumentService) FindDocumentByID(ctx context.Context, id string) (doc *qtd.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find document",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocumentByID(ctx, id)
}

func (s *LoggingDocumentService) FindDocuments(ctx context.Context, filter qtd.DocumentFilter) (docs []*qtd.Document, err error) {
	defer func(begin time.Time) {
		kb := ""
		if filter.KnowledgeBase != nil {
			kb = string(*filter.KnowledgeBase)
		}
		s.logger.Debug("find documents",
			"kb", kb,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocuments(ctx, filter)
}

func (s *LoggingDocumentService) CountDocuments(ctx context.Context) (counts map[qtd.KnowledgeBase]int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("count documents",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CountDocuments(ctx)
}

func (s *LoggingDocumentService) DeleteDocuments(ctx context.Context, kb qtd.KnowledgeBase) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete documents",
			"kb", string(kb),
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteDocuments(ctx, kb)
}
