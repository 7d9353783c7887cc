// Package trafilatura extracts the main content of HTML pages that no
// framework-specific extractor recognizes.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pinnacledb/qtd"
	"golang.org/x/net/html"
)

var _ qtd.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura, which falls back to readability and
// dom-distiller heuristics when its own pass finds little content.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*qtd.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, qtd.Errorf(qtd.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{EnableFallback: true})
	if err != nil {
		return nil, qtd.Errorf(qtd.EINVALID, "extract content: %v", err)
	}
	if result.ContentNode == nil {
		return nil, qtd.Errorf(qtd.EINVALID, "no main content found")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}

	return &qtd.Extraction{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: buf.String(),
	}, nil
}
