package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pinnacledb/qtd"
)

var _ qtd.Extractor = (*Extractor)(nil)

// contentSelectors lists, most specific first, where each framework renders
// the page body.
var contentSelectors = map[qtd.Framework][]string{
	qtd.FrameworkDocusaurus: {".theme-doc-markdown", "article"},
	qtd.FrameworkMkDocs:     {"article.md-content__inner", ".md-content"},
	qtd.FrameworkSphinx:     {"[itemprop='articleBody']", "div[role='main']", "div.body"},
	qtd.FrameworkVitePress:  {".vp-doc", ".VPDoc main"},
	qtd.FrameworkVuePress:   {".theme-default-content"},
	qtd.FrameworkGitBook:    {"main"},
	qtd.FrameworkNextra:     {"article main", "article"},
}

// boilerplate is removed from the selected content.
const boilerplate = "script, style, noscript, nav, footer, aside, form, button, " +
	".headerlink, .hash-link, .md-source-file, .theme-edit-this-page, .pagination-nav, " +
	".edit-link, .prev-next, .header-anchor, [aria-hidden='true']"

// Extractor selects the main content of pages produced by known documentation
// frameworks. Pages it does not recognize go to Fallback.
type Extractor struct {
	Detector *Detector

	// Used for unrecognized pages. When nil, the whole body is kept.
	Fallback qtd.Extractor
}

// NewExtractor returns an Extractor that hands unrecognized pages to fallback.
func NewExtractor(fallback qtd.Extractor) *Extractor {
	return &Extractor{
		Detector: NewDetector(),
		Fallback: fallback,
	}
}

// Extract returns the page title and main content.
func (e *Extractor) Extract(html string) (*qtd.Extraction, error) {
	if strings.TrimSpace(html) == "" {
		return nil, qtd.Errorf(qtd.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, qtd.Errorf(qtd.EINVALID, "failed to parse HTML: %v", err)
	}

	content := selectContent(doc, e.Detector.detect(doc))
	if content == nil {
		if e.Fallback != nil {
			return e.Fallback.Extract(html)
		}
		content = doc.Find("body")
	}

	title := pageTitle(doc)
	content.Find(boilerplate).Remove()
	out, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, qtd.Errorf(qtd.EINVALID, "failed to render content: %v", err)
	}
	return &qtd.Extraction{Title: title, ContentHTML: strings.TrimSpace(out)}, nil
}

// selectContent returns the first non-empty content container for framework,
// or nil.
func selectContent(doc *goquery.Document, framework qtd.Framework) *goquery.Selection {
	for _, sel := range contentSelectors[framework] {
		s := doc.Find(sel).First()
		if s.Length() > 0 && strings.TrimSpace(s.Text()) != "" {
			return s
		}
	}
	return nil
}

// pageTitle prefers the first h1 over the <title>, which usually carries the
// site name as well.
func pageTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(h1, "¶")), "#")
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if i := strings.IndexAny(title, "|–—"); i > 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}
