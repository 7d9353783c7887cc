package qtd

// Converter converts HTML documentation pages to Markdown before they are split
// into documents.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
