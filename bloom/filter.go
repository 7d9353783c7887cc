// Package bloom provides probabilistic set membership for deduplicating ingested
// snippets.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by strings.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd reports whether key might already have been added, and adds it.
// False positives are possible; false negatives are not.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}
