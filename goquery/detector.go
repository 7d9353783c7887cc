// Package goquery recognizes documentation site generators and extracts the
// main content of their pages using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pinnacledb/qtd"
)

var _ qtd.FrameworkDetector = (*Detector)(nil)

// Detector identifies documentation frameworks from HTML content.
// It checks generator meta tags first, then markers unique to each generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
func (d *Detector) Detect(html string) qtd.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return qtd.FrameworkUnknown
	}
	return d.detect(doc)
}

// markers lists, in check order, the selectors that identify a framework.
// VitePress precedes VuePress since it reuses some VuePress markup.
var markers = []struct {
	framework qtd.Framework
	selectors []string
}{
	{qtd.FrameworkDocusaurus, []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container", ".theme-doc-markdown"}},
	{qtd.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
	{qtd.FrameworkSphinx, []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"}},
	{qtd.FrameworkVitePress, []string{"#VPContent", ".VPDoc", ".vp-doc"}},
	{qtd.FrameworkVuePress, []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"}},
	{qtd.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"}},
	{qtd.FrameworkNextra, []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"}},
}

func (d *Detector) detect(doc *goquery.Document) qtd.Framework {
	if f := fromGenerator(doc); f != qtd.FrameworkUnknown {
		return f
	}
	for _, m := range markers {
		for _, sel := range m.selectors {
			if doc.Find(sel).Length() > 0 {
				return m.framework
			}
		}
	}
	return qtd.FrameworkUnknown
}

// fromGenerator reads the meta generator tag, the most reliable marker when
// present.
func fromGenerator(doc *goquery.Document) qtd.Framework {
	generator, _ := doc.Find("meta[name='generator']").Last().Attr("content")
	generator = strings.ToLower(generator)
	if generator == "" {
		return qtd.FrameworkUnknown
	}

	switch {
	case strings.Contains(generator, "sphinx"):
		return qtd.FrameworkSphinx
	case strings.Contains(generator, "gitbook"):
		return qtd.FrameworkGitBook
	case strings.Contains(generator, "docusaurus"):
		return qtd.FrameworkDocusaurus
	case strings.Contains(generator, "mkdocs"):
		return qtd.FrameworkMkDocs
	case strings.Contains(generator, "vitepress"):
		return qtd.FrameworkVitePress
	case strings.Contains(generator, "vuepress"):
		return qtd.FrameworkVuePress
	case strings.Contains(generator, "nextra"):
		return qtd.FrameworkNextra
	}
	return qtd.FrameworkUnknown
}
