// Package slog decorates qtd services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pinnacledb/qtd"
)

var _ qtd.QueryClient = (*LoggingClient)(nil)

// LoggingClient wraps a QueryClient and logs every question.
type LoggingClient struct {
	next   qtd.QueryClient
	logger *slog.Logger
}

// NewLoggingClient creates a new LoggingClient.
func NewLoggingClient(next qtd.QueryClient, logger *slog.Logger) *LoggingClient {
	return &LoggingClient{next: next, logger: logger}
}

// Ask delegates to the wrapped client and logs the outcome. Failures are
// logged at warn level with their error code.
func (c *LoggingClient) Ask(ctx context.Context, req qtd.Request) (answer *qtd.Answer, err error) {
	defer func(begin time.Time) {
		if err != nil {
			c.logger.Warn("ask",
				"kb", string(req.KnowledgeBase),
				"question_len", len(req.Question),
				"code", qtd.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		sources := 0
		if answer != nil {
			sources = len(answer.Sources)
		}
		c.logger.Info("ask",
			"kb", string(req.KnowledgeBase),
			"question_len", len(req.Question),
			"sources", sources,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Ask(ctx, req)
}
