package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/picshuttle/picshuttle/internal/files"
	"github.com/picshuttle/picshuttle/internal/repositories"
	"github.com/picshuttle/picshuttle/internal/services"
	"github.com/picshuttle/picshuttle/internal/shared"
	"github.com/picshuttle/picshuttle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	connector  *services.LibraryConnector
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Connector  *services.LibraryConnector
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		connector:  opts.Connector,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accountsCommand, photosCommand, albumsCommand, queueCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when a view owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDB opens the configured sqlite database with pooling applied.
func (r *Runner) openDB() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// stores bundles the repositories a command builds over one database handle.
type stores struct {
	accounts    *repositories.AccountRepository
	media       *repositories.MediaRepository
	events      *repositories.EventRepository
	collections *repositories.CollectionRepository
	queue       *repositories.QueueRepository
	pageTokens  *repositories.PageTokenRepository
}

func newStores(db *sql.DB) *stores {
	return &stores{
		accounts:    repositories.NewAccountRepository(db),
		media:       repositories.NewMediaRepository(db),
		events:      repositories.NewEventRepository(db),
		collections: repositories.NewCollectionRepository(db),
		queue:       repositories.NewQueueRepository(db),
		pageTokens:  repositories.NewPageTokenRepository(db),
	}
}

// importer wires the full import pipeline over the given stores.
func (r *Runner) importer(s *stores) (*tasks.Importer, error) {
	if r.connector == nil {
		return nil, fmt.Errorf("%w: library connector not initialized", shared.ErrServiceUnavailable)
	}

	content := files.NewStore(r.config.Import.LibraryDir, r.httpClient)
	return tasks.NewImporter(s.accounts, s.media, s.events, s.collections, content, r.connector, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
