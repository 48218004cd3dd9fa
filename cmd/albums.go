package main

import (
	"context"
	"fmt"
	"os"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
	"github.com/picshuttle/picshuttle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AlbumsList lists shared albums from the remote library.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	token := cmd.String("token")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.connector == nil {
		return fmt.Errorf("%w: library connector not initialized", shared.ErrServiceUnavailable)
	}

	pageSize := int(cmd.Int("size"))
	if pageSize <= 0 {
		pageSize = r.config.Import.PageSize
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

	r.logger.Infof("listing albums for %v", username)

	result, err := lib.ListAlbums(ctx, pageSize, token)
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("Found %d albums:\n\n", len(result.Albums))
	for i, album := range result.Albums {
		r.writePlain("%d. %s\n", i+1, album.Title)
		r.writePlain("   ID: %s\n", album.ID)
		r.writePlain("   Items: %d\n", album.ItemCount)
		r.writePlain("\n")
	}

	if result.NextPageToken != "" {
		r.writePlain("More albums available: rerun with --token %s\n", result.NextPageToken)
	}

	return nil
}

// AlbumsImport enqueues an album selection for import. Overlapping albums
// are diffed so each photo is imported once, attributed to the first album
// that claimed it.
func (r *Runner) AlbumsImport(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	selectionFile := cmd.String("file")
	collectionName := cmd.String("collection")
	createEvents := cmd.Bool("events")

	if r.connector == nil {
		return fmt.Errorf("%w: library connector not initialized", shared.ErrServiceUnavailable)
	}

	payload, err := os.ReadFile(selectionFile)
	if err != nil {
		return fmt.Errorf("failed to read selection file: %w", err)
	}

	selection, err := models.ParseAlbumSelection(payload)
	if err != nil {
		return fmt.Errorf("invalid album selection: %w", err)
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

	r.logger.Infof("mapping %v albums for %v", len(selection), username)

	groups, allIDs, err := tasks.BuildAlbumMapping(ctx, lib, selection, r.config.Import.PageSize, nil)
	if err != nil {
		return fmt.Errorf("failed to map albums: %w", err)
	}

	importCtx := models.ImportContext{
		Albums:       groups,
		CreateEvents: createEvents,
	}
	if collectionName != "" {
		collection, err := r.resolveCollection(s, account, collectionName)
		if err != nil {
			return err
		}
		importCtx.CollectionID = collection.ID()
	}

	runner, err := r.importer(s)
	if err != nil {
		return err
	}

	engine := r.queueEngine(s, runner)

	count, err := engine.EnqueueImports(models.NewSelection(allIDs...), account.ID(), importCtx)
	if err != nil {
		return fmt.Errorf("failed to enqueue imports: %w", err)
	}

	albumCount := len(groups)
	if err := engine.EnqueueCompletionNotice(account, count, &albumCount); err != nil {
		return fmt.Errorf("failed to enqueue completion notice: %w", err)
	}

	r.writePlain("✓ Enqueued %d photos from %d albums\n", count, albumCount)
	for _, group := range groups {
		r.writePlain("   %s: %d photos\n", group.Title, len(group.Members))
	}
	r.writePlain("Run 'picshuttle queue run' to process them\n")

	return nil
}
