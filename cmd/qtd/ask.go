package main

import (
	"fmt"

	"github.com/pinnacledb/qtd"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	kb, err := qtd.ParseKnowledgeBase(c.KnowledgeBase)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Use 'qtd kbs' to see available knowledge bases.\n", qtd.ErrorMessage(err))
		return err
	}

	ctrl := qtd.NewController(deps.Client, qtd.WithTimeout(deps.Timeout))
	defer ctrl.Close()
	ctrl.Select(kb)
	ctrl.SetQuestion(c.Question)

	s, err := ctrl.Ask(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, qtd.FormatSession(s))
	return nil
}
