package main

import (
	"fmt"

	"github.com/pinnacledb/qtd"
)

// Run executes the purge command.
func (c *PurgeCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return qtd.Errorf(qtd.EINVALID, "use --force to confirm deletion")
	}

	kb, err := qtd.ParseKnowledgeBase(c.KnowledgeBase)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	n, err := deps.Documents.DeleteDocuments(deps.Ctx, kb)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d documents from %s\n", n, kb.Label())
	return nil
}
