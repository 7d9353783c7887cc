package main

import (
	"fmt"

	"github.com/pinnacledb/qtd"
)

// Run executes the kbs command.
func (c *KBsCmd) Run(deps *Dependencies) error {
	for _, kb := range qtd.KnowledgeBases() {
		fmt.Fprintf(deps.Stdout, "%-12s %s\n", kb.ID, kb.Label)
	}
	return nil
}
