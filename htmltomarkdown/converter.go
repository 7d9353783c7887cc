// Package htmltomarkdown converts HTML documentation pages to Markdown so they
// can be windowed like any other markdown file.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/pinnacledb/qtd"
)

var _ qtd.Converter = (*Converter)(nil)

// Converter implements qtd.Converter with html-to-markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with commonmark and table support.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert transforms an HTML page into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", qtd.Errorf(qtd.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", qtd.Errorf(qtd.EINVALID, "cannot convert HTML: %v", err)
	}
	return strings.TrimSpace(md), nil
}
