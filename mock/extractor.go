package mock

import "github.com/pinnacledb/qtd"

var _ qtd.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of qtd.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*qtd.Extraction, error)
}

func (e *Extractor) Extract(html string) (*qtd.Extraction, error) {
	return e.ExtractFn(html)
}
