package main

import (
	"context"
	"fmt"

	"github.com/pinnacledb/qtd"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	kb, err := qtd.ParseKnowledgeBase(c.KnowledgeBase)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	if c.Replace {
		n, err := deps.Documents.DeleteDocuments(deps.Ctx, kb)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
			return err
		}
		if n > 0 {
			fmt.Fprintf(deps.Stdout, "Removed %d existing documents\n", n)
		}
	}

	n, err := ingest(deps.Ctx, deps.Loader, deps.Documents, kb, c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	if n == 0 {
		fmt.Fprintf(deps.Stdout, "No markdown or HTML documentation found in %s\n", c.Dir)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Stored %d documents for %s\n", n, kb.Label())
	return nil
}

// ingest loads dir and stores its documents under kb. It returns how many
// documents were stored.
func ingest(ctx context.Context, loader qtd.DocumentLoader, docs qtd.DocumentService, kb qtd.KnowledgeBase, dir string) (int, error) {
	loaded, err := loader.Load(ctx, kb, dir)
	if err != nil {
		return 0, err
	}
	if err := docs.CreateDocuments(ctx, loaded); err != nil {
		return 0, err
	}
	return len(loaded), nil
}
