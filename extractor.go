package qtd

// Extraction is the main content of an HTML documentation page.
type Extraction struct {
	// Title is the page title taken from its metadata or first heading.
	Title string

	// ContentHTML is the main content with navigation, sidebars and footers
	// removed. Structure such as headings and code blocks is preserved.
	ContentHTML string
}

// Extractor strips boilerplate from HTML documentation pages before they are
// converted to Markdown.
type Extractor interface {
	Extract(html string) (*Extraction, error)
}

// Framework identifies the generator that produced a documentation page.
type Framework string

// Recognized documentation frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// FrameworkDetector identifies documentation frameworks from HTML.
type FrameworkDetector interface {
	// Detect returns FrameworkUnknown if the framework cannot be determined.
	Detect(html string) Framework
}
