// Package fs loads documentation from the local filesystem.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pinnacledb/qtd"
	"github.com/pinnacledb/qtd/bloom"
	"golang.org/x/sync/errgroup"
)

// Default windowing of a file into snippets, in lines.
const (
	DefaultWindowSize = 10
	DefaultStride     = 5
)

// duplicateFalsePositiveRate bounds how often a unique snippet is mistaken
// for a duplicate and dropped.
const duplicateFalsePositiveRate = 1e-6

var _ qtd.DocumentLoader = (*Loader)(nil)

// Loader reads markdown and HTML files below a directory and splits them into
// overlapping line windows, one document per window. Identical windows are
// stored once per load.
type Loader struct {
	// Converts .html files. HTML files are skipped when nil.
	Converter qtd.Converter

	// Optionally strips site navigation from .html files before conversion.
	// Pages it fails on are converted whole.
	Extractor qtd.Extractor

	WindowSize  int
	Stride      int
	Concurrency int
}

// NewLoader creates a Loader with the default windowing.
func NewLoader(conv qtd.Converter) *Loader {
	return &Loader{
		Converter:   conv,
		WindowSize:  DefaultWindowSize,
		Stride:      DefaultStride,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// Load returns the unsaved documents for every supported file below root.
// Sources are paths relative to root with forward slashes.
func (l *Loader) Load(ctx context.Context, kb qtd.KnowledgeBase, root string) ([]*qtd.Document, error) {
	if !kb.Valid() {
		return nil, qtd.Errorf(qtd.EINVALID, "unknown knowledge base %q", kb)
	}
	if l.WindowSize <= 0 || l.Stride <= 0 {
		return nil, qtd.Errorf(qtd.EINVALID, "window size and stride must be positive")
	}

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, qtd.Errorf(qtd.ENOTFOUND, "directory %q not found", root)
	} else if err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, qtd.Errorf(qtd.EINVALID, "%q is not a directory", root)
	}

	paths, err := l.collect(root)
	if err != nil {
		return nil, err
	}

	files := make([]file, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := l.read(root, path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, f := range files {
		total += len(f.windows)
	}
	seen := bloom.NewFilter(uint(total), duplicateFalsePositiveRate)

	var docs []*qtd.Document
	for _, f := range files {
		position := 0
		for _, w := range f.windows {
			if seen.TestAndAdd(strings.Join(strings.Fields(w), " ")) {
				continue
			}
			docs = append(docs, &qtd.Document{
				KnowledgeBase: kb,
				SourceURL:     f.source,
				Title:         f.title,
				Content:       w,
				Position:      position,
			})
			position++
		}
	}
	return docs, nil
}

type file struct {
	source  string
	title   string
	windows []string
}

// collect returns the supported files below root in lexical order, skipping
// hidden directories.
func (l *Loader) collect(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			paths = append(paths, path)
		case ".html", ".htm":
			if l.Converter != nil {
				paths = append(paths, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) read(root, path string) (file, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return file{}, err
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return file{}, err
	}

	content, title := string(data), ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		if strings.TrimSpace(content) == "" {
			return file{source: filepath.ToSlash(rel)}, nil
		}
		if l.Extractor != nil {
			if ext, err := l.Extractor.Extract(content); err == nil && strings.TrimSpace(ext.ContentHTML) != "" {
				content, title = ext.ContentHTML, ext.Title
			}
		}
		content, err = l.Converter.Convert(content)
		if err != nil {
			return file{}, fmt.Errorf("convert %s: %w", rel, err)
		}
	}

	if title == "" {
		title = Title(content, rel)
	}
	return file{
		source:  filepath.ToSlash(rel),
		title:   title,
		windows: Windows(content, l.WindowSize, l.Stride),
	}, nil
}

// Title returns the text of the first markdown heading in content, or the file
// name without extension when there is none.
func Title(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if title := strings.TrimSpace(strings.TrimLeft(line, "#")); title != "" {
			return title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Windows splits text into windows of size lines starting every stride lines.
// The last window may be shorter. Blank windows are dropped.
func Windows(text string, size, stride int) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	var windows []string
	for start := 0; start < len(lines); start += stride {
		end := min(start+size, len(lines))
		w := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if w != "" {
			windows = append(windows, w)
		}
		if end == len(lines) {
			break
		}
	}
	return windows
}
