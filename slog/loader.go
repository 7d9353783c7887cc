package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pinnacledb/qtd"
)

var _ qtd.DocumentLoader = (*LoggingDocumentLoader)(nil)

// LoggingDocumentLoader wraps a DocumentLoader and logs each load.
type LoggingDocumentLoader struct {
	next   qtd.DocumentLoader
	logger *slog.Logger
}

// NewLoggingDocumentLoader creates a new LoggingDocumentLoader.
func NewLoggingDocumentLoader(next qtd.DocumentLoader, logger *slog.Logger) *LoggingDocumentLoader {
	return &LoggingDocumentLoader{next: next, logger: logger}
}

func (l *LoggingDocumentLoader) Load(ctx context.Context, kb qtd.KnowledgeBase, root string) (docs []*qtd.Document, err error) {
	defer func(begin time.Time) {
		l.logger.Info("load documents",
			"kb", string(kb),
			"root", root,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Load(ctx, kb, root)
}
