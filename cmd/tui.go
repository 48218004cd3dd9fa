package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
	"github.com/picshuttle/picshuttle/internal/tasks"
	"github.com/picshuttle/picshuttle/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for photo imports.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	collectionName := cmd.String("collection")

	if r.connector == nil {
		return fmt.Errorf("%w: library connector not initialized", shared.ErrServiceUnavailable)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	account, err := s.accounts.GetByUsername(username)
	if err != nil {
		return fmt.Errorf("account %q not found: %w", username, err)
	}

	lib, err := r.connector.Connect(ctx, account)
	if err != nil {
		return err
	}

	importCtx := models.ImportContext{}
	if collectionName != "" {
		collection, err := r.resolveCollection(s, account, collectionName)
		if err != nil {
			return err
		}
		importCtx.CollectionID = collection.ID()
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/picshuttle-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	runner, err := r.importer(s)
	if err != nil {
		return err
	}

	engine := tasks.NewBatchEngine(runner, fileLogger)

	model := ui.NewModel(ctx, lib, engine, account.ID(), importCtx, r.config.Import.PageSize)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
