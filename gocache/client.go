// Package gocache caches backend answers in memory with go-cache.
package gocache

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pinnacledb/qtd"
)

// DefaultTTL is how long an answer is served from the cache.
const DefaultTTL = 10 * time.Minute

var _ qtd.QueryClient = (*Client)(nil)

// Client answers repeated questions from a TTL cache and forwards the rest to
// the wrapped client. Only successful answers are cached.
type Client struct {
	next  qtd.QueryClient
	cache *cache.Cache
}

// NewClient wraps next with a cache whose entries expire after ttl.
// A non-positive ttl uses DefaultTTL.
func NewClient(next qtd.QueryClient, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Ask returns the cached answer for req or asks the wrapped client.
func (c *Client) Ask(ctx context.Context, req qtd.Request) (*qtd.Answer, error) {
	key := Key(req)
	if x, found := c.cache.Get(key); found {
		return copyAnswer(x.(*qtd.Answer)), nil
	}

	answer, err := c.next.Ask(ctx, req)
	if err != nil {
		return nil, err
	}
	if answer != nil {
		c.cache.Set(key, copyAnswer(answer), cache.DefaultExpiration)
	}
	return answer, nil
}

// Key returns the cache key of req. Questions differing only in case or
// whitespace share a key; any other difference yields a distinct key.
func Key(req qtd.Request) string {
	q := strings.Join(strings.Fields(strings.ToLower(req.Question)), " ")
	return string(req.KnowledgeBase) + ":" + q
}

func copyAnswer(a *qtd.Answer) *qtd.Answer {
	cp := *a
	cp.Sources = append([]string(nil), a.Sources...)
	return &cp
}
