package mock

import "github.com/pinnacledb/qtd"

var _ qtd.Converter = (*Converter)(nil)

// Converter is a mock implementation of qtd.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
