package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pinnacledb/qtd"
	"github.com/pinnacledb/qtd/bubbletea"
)

// Run executes the tui command.
func (c *TUICmd) Run(deps *Dependencies) error {
	ctrl := qtd.NewController(deps.Client, qtd.WithTimeout(deps.Timeout))
	defer ctrl.Close()

	opts := []bubbletea.Option{bubbletea.WithLogger(deps.Logger)}
	if c.KnowledgeBase != "" {
		kb, err := qtd.ParseKnowledgeBase(c.KnowledgeBase)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
			return err
		}
		opts = append(opts, bubbletea.WithKnowledgeBase(kb))
	}
	model := bubbletea.New(deps.Ctx, ctrl, opts...)

	progOpts := []tea.ProgramOption{
		tea.WithContext(deps.Ctx),
		tea.WithOutput(deps.Stdout),
		tea.WithAltScreen(),
	}
	if deps.Stdin != nil {
		progOpts = append(progOpts, tea.WithInput(deps.Stdin))
	}

	_, err := tea.NewProgram(model, progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && deps.Ctx.Err() != nil {
		return nil
	}
	return err
}
