package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the control surface until the user quits or ctx is done.
func Run(ctx context.Context, engine Engine, opts Options) error {
	p := tea.NewProgram(NewModel(engine, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
