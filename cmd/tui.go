package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/singarr/internal/shared"
	"github.com/desertthunder/singarr/internal/ui"
)

// Monitor launches the terminal UI against a running server.
func (r *Runner) Monitor(ctx context.Context, cmd *cli.Command) error {
	client := r.serverClient(cmd)

	stream, err := client.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer stream.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := cmd.String("log-file")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	fileLogger, closer := shared.NewFileOnlyLogger(logPath)
	defer closer.Close()
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, client, stream)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
