package goquery_test

import (
	"testing"

	"github.com/pinnacledb/qtd"
	"github.com/pinnacledb/qtd/goquery"
	"github.com/pinnacledb/qtd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sphinxPage = `<!DOCTYPE html>
<html>
<head>
  <meta name="generator" content="Sphinx 7.2.6">
  <title>Installation | SuperDuperDB documentation</title>
</head>
<body>
  <nav class="wy-nav-side"><a href="/">Home</a><a href="/api">API</a></nav>
  <div role="main">
    <h1>Installation<a class="headerlink" href="#installation">¶</a></h1>
    <p>Install with <code>pip install superduperdb</code>.</p>
    <footer>Built with Sphinx</footer>
  </div>
  <script>var x = 1;</script>
</body>
</html>`

const docusaurusPage = `<!DOCTYPE html>
<html>
<head><title>Streaming | LangChain</title></head>
<body>
  <a id="__docusaurus_skipToContent_fallback" href="#x">Skip to main content</a>
  <div class="theme-doc-sidebar-container"><nav>Sidebar</nav></div>
  <article>
    <div class="theme-doc-markdown markdown">
      <h1>Streaming</h1>
      <p>Call <code>stream</code> on any runnable.</p>
    </div>
    <nav class="pagination-nav">Next</nav>
  </article>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("selects sphinx main content", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewExtractor(nil).Extract(sphinxPage)

		require.NoError(t, err)
		assert.Equal(t, "Installation", got.Title)
		assert.Contains(t, got.ContentHTML, "pip install superduperdb")
		assert.NotContains(t, got.ContentHTML, "API")
		assert.NotContains(t, got.ContentHTML, "Built with Sphinx")
		assert.NotContains(t, got.ContentHTML, "headerlink")
		assert.NotContains(t, got.ContentHTML, "var x")
	})

	t.Run("selects docusaurus markdown", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewExtractor(nil).Extract(docusaurusPage)

		require.NoError(t, err)
		assert.Equal(t, "Streaming", got.Title)
		assert.Contains(t, got.ContentHTML, "on any runnable")
		assert.NotContains(t, got.ContentHTML, "Sidebar")
		assert.NotContains(t, got.ContentHTML, "Next")
	})

	t.Run("hands unknown pages to fallback", func(t *testing.T) {
		t.Parallel()

		var called bool
		fallback := &mock.Extractor{
			ExtractFn: func(html string) (*qtd.Extraction, error) {
				called = true
				return &qtd.Extraction{Title: "From fallback", ContentHTML: "<p>x</p>"}, nil
			},
		}

		got, err := goquery.NewExtractor(fallback).Extract(`<html><body><p>plain</p></body></html>`)

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "From fallback", got.Title)
	})

	t.Run("keeps body of unknown pages without fallback", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewExtractor(nil).Extract(`<html><head><title>Notes – FastChat</title></head><body><nav>menu</nav><p>plain text</p></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Notes", got.Title)
		assert.Contains(t, got.ContentHTML, "plain text")
		assert.NotContains(t, got.ContentHTML, "menu")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor(nil).Extract("  ")

		require.Error(t, err)
		assert.Equal(t, qtd.EINVALID, qtd.ErrorCode(err))
	})
}
