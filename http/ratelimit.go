package http

import (
	"sync"

	"github.com/pinnacledb/qtd"
	"golang.org/x/time/rate"
)

// KnowledgeBaseLimiter provides per-knowledge-base rate limiting using token
// buckets, so a burst of questions about one corpus cannot starve the others.
type KnowledgeBaseLimiter struct {
	mu       sync.Mutex
	limiters map[qtd.KnowledgeBase]*rate.Limiter
	rps      float64
	burst    int
}

// NewKnowledgeBaseLimiter creates a limiter allowing rps requests per second
// per knowledge base with the given burst. A non-positive rps disables limiting.
func NewKnowledgeBaseLimiter(rps float64, burst int) *KnowledgeBaseLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KnowledgeBaseLimiter{
		limiters: make(map[qtd.KnowledgeBase]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Allow reports whether a request for kb may proceed now. It never blocks.
func (l *KnowledgeBaseLimiter) Allow(kb qtd.KnowledgeBase) bool {
	if l == nil || l.rps <= 0 {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters[kb]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[kb] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
