package main

import (
	"fmt"

	"github.com/pinnacledb/qtd"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	kb, err := qtd.ParseKnowledgeBase(c.KnowledgeBase)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	if c.ID != "" {
		return c.show(deps, kb)
	}

	counts, err := deps.Documents.CountDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}
	if counts[kb] == 0 {
		fmt.Fprintf(deps.Stderr, "error: %s has no documents. Run 'qtd ingest %s <dir>' to add some.\n", kb.Label(), kb)
		return qtd.Errorf(qtd.ENOTFOUND, "%s has no documents", kb.Label())
	}

	docs, err := deps.Documents.FindDocuments(deps.Ctx, qtd.DocumentFilter{KnowledgeBase: &kb, Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", kb.Label(), counts[kb])
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "  %s  %s #%d  %s\n", doc.ID, doc.SourceURL, doc.Position, title)
	}
	if len(docs) < counts[kb] {
		fmt.Fprintf(deps.Stdout, "\n  ... %d more (use -n 0 to list all)\n", counts[kb]-len(docs))
	}
	return nil
}

func (c *DocsCmd) show(deps *Dependencies, kb qtd.KnowledgeBase) error {
	doc, err := deps.Documents.FindDocumentByID(deps.Ctx, c.ID)
	if err == nil && doc.KnowledgeBase != kb {
		err = qtd.Errorf(qtd.ENOTFOUND, "document not found")
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "source: %s #%d\ntitle: %s\nhash: %s\n\n%s\n",
		doc.SourceURL, doc.Position, doc.Title, doc.ContentHash, doc.Content)
	return nil
}
