package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/picshuttle/picshuttle/internal/formatter"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/pager"
	"github.com/picshuttle/picshuttle/internal/shared"
	"github.com/picshuttle/picshuttle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PhotosList lists one page of the remote library, resuming pagination
// through the persistent page token cache.
func (r *Runner) PhotosList(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	page := int(cmd.Int("page"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.connector == nil {
		return fmt.Errorf("%w: library connector not initialized", shared.ErrServiceUnavailable)
	}

	pageSize := int(cmd.Int("size"))
	if pageSize <= 0 {
		pageSize = r.config.Import.PageSize
	}

	filters := filtersFromFlags(cmd)

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

	cache := pager.NewTokenCache(s.pageTokens)

	token, err := cache.PreviousPageToken(account.ID(), filters, page)
	if err != nil {
		return fmt.Errorf("failed to resolve page token: %w", err)
	}
	if page > 0 && token == "" {
		r.logger.Warn("no cached token for requested page, listing from the start", "page", page)
	}

	r.logger.Infof("listing photos for %v (page %v, size %v)", username, page, pageSize)

	result, err := lib.SearchMedia(ctx, models.SearchQuery{
		Filters:   filters,
		PageSize:  pageSize,
		PageToken: token,
	})
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	if result.NextPageToken != "" {
		if err := cache.SavePageToken(account.ID(), filters, page, result.NextPageToken); err != nil {
			r.logger.Warn("failed to cache page token", "error", err)
		}
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("Page %d, %d photos:\n\n", page, len(result.Items))
	for i, item := range result.Items {
		label := item.Filename
		if label == "" {
			label = item.ID
		}
		r.writePlain("%d. %s\n", i+1, label)
		r.writePlain("   ID: %s\n", item.ID)
		r.writePlain("   Type: %s\n", item.MimeType)
		if !item.CreationTime.IsZero() {
			r.writePlain("   Taken: %s\n", item.CreationTime.Format("2006-01-02 15:04"))
		}
		r.writePlain("\n")
	}

	if result.NextPageToken != "" {
		r.writePlain("More photos available: rerun with --page %d\n", page+1)
	}

	return nil
}

// PhotosImport imports the photos named on the command line, inline or
// through the background queue.
func (r *Runner) PhotosImport(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	collectionName := cmd.String("collection")
	useQueue := cmd.Bool("queue")
	reportBase := cmd.String("report")

	remoteIDs := cmd.Args().Slice()
	if len(remoteIDs) == 0 {
		return fmt.Errorf("%w: at least one remote id is required", shared.ErrMissingArgument)
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

	importCtx := models.ImportContext{}
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

	if useQueue {
		engine := r.queueEngine(s, runner)
		selection := models.NewSelection(remoteIDs...)

		count, err := engine.EnqueueImports(selection, account.ID(), importCtx)
		if err != nil {
			return fmt.Errorf("failed to enqueue imports: %w", err)
		}
		if err := engine.EnqueueCompletionNotice(account, count, nil); err != nil {
			return fmt.Errorf("failed to enqueue completion notice: %w", err)
		}

		r.writePlain("✓ Enqueued %d photos for import\n", count)
		r.writePlain("Run 'picshuttle queue run' to process them\n")
		return nil
	}

	report := &formatter.Report{
		Title:   "Photo Import",
		Account: account.Username(),
	}

	engine := tasks.NewBatchEngine(runner, r.logger)
	state := tasks.NewBatchState(remoteIDs)

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		remoteID := state.Remaining[0]

		var outcome tasks.StepOutcome
		state, outcome = engine.Step(ctx, state, account.ID(), importCtx)

		r.writePlain("%s\n", outcome.Message)

		if outcome.Err != nil {
			report.Entries = append(report.Entries, formatter.FailedEntry(remoteID, outcome.Err))
			continue
		}

		eventTitle := ""
		if outcome.Record != nil && outcome.Record.EventID() != "" {
			if event, err := s.events.Get(outcome.Record.EventID()); err == nil {
				eventTitle = event.Title()
			}
		}
		report.Entries = append(report.Entries, formatter.EntryFromRecord(outcome.Record, eventTitle))
	}

	report.Tally()

	payload := models.NotifyCompletionPayload{
		Username:   account.Username(),
		Email:      account.Email(),
		Language:   account.Language(),
		PhotoCount: report.Imported,
	}
	notifier := tasks.NewLogNotifier(r.logger)
	if err := notifier.Notify(ctx, payload); err != nil {
		r.logger.Warn("failed to send completion notice", "error", err)
	}

	r.writePlainHeader(fmt.Sprintf("Imported %d of %d photos", report.Imported, len(remoteIDs)))

	if reportBase != "" {
		result, err := formatter.WriteCSVExport(report, reportBase)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.writePlain("✓ Report written to %s\n", result.ReportFile)
		r.writePlain("✓ Summary written to %s\n", result.SummaryFile)
	}

	return nil
}

// resolveCollection finds the account's collection by name, creating it when absent.
func (r *Runner) resolveCollection(s *stores, account *models.Account, name string) (*models.Collection, error) {
	collections, err := s.collections.List(map[string]any{"account_id": account.ID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	for _, c := range collections {
		if c.Name() == name {
			return c, nil
		}
	}

	collection := models.NewCollection(0, account.ID(), name)
	if err := s.collections.Create(collection); err != nil {
		return nil, fmt.Errorf("failed to create collection %q: %w", name, err)
	}

	r.logger.Info("collection created", "name", name, "id", collection.ID())
	return collection, nil
}

// filtersFromFlags builds date filters from the list flags.
func filtersFromFlags(cmd *cli.Command) models.SearchFilters {
	filters := models.SearchFilters{
		DateFrom: cmd.String("from"),
		DateTo:   cmd.String("to"),
	}
	filters.IsRange = filters.DateTo != ""

	if dates := cmd.String("dates"); dates != "" {
		for _, d := range strings.Split(dates, ",") {
			if trimmed := strings.TrimSpace(d); trimmed != "" {
				filters.DateList = append(filters.DateList, trimmed)
			}
		}
	}

	return filters
}
