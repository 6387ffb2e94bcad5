package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tinytasks/internal/shared"
	"github.com/desertthunder/tinytasks/internal/tasks"
	"github.com/desertthunder/tinytasks/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive task list.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	// in-flight requests are abandoned when the program exits
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan tasks.Update, 64)
	engine := r.newEngine(updates)

	model := ui.NewModel(ctx, engine, updates)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
