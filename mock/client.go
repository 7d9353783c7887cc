package mock

import (
	"context"

	"github.com/pinnacledb/qtd"
)

var _ qtd.QueryClient = (*QueryClient)(nil)

// QueryClient is a mock implementation of qtd.QueryClient.
type QueryClient struct {
	AskFn func(ctx context.Context, req qtd.Request) (*qtd.Answer, error)
}

func (c *QueryClient) Ask(ctx context.Context, req qtd.Request) (*qtd.Answer, error) {
	return c.AskFn(ctx, req)
}
