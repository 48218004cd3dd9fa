// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// accountsCommand handles local account management and OAuth connection.
func accountsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "accounts",
		Aliases: []string{"acct"},
		Usage:   "Manage library accounts",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email for completion notices",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Notification language code",
						Value: "en",
					},
				},
				Action: r.AccountAdd,
			},
			{
				Name:  "connect",
				Usage: "Authorize an account against the photo library using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
				},
				Action: r.AccountConnect,
			},
			{
				Name:  "list",
				Usage: "List registered accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AccountList,
			},
		},
	}
}

// photosCommand handles photo listing and import operations.
func photosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "photos",
		Usage: "Browse and import photos",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List photos from the remote library, one page at a time",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number to fetch (0-based)",
						Value:   0,
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Page size (defaults to import.page_size)",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Start date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "End date (YYYY-MM-DD), makes --from a range",
					},
					&cli.StringFlag{
						Name:  "dates",
						Usage: "Comma-separated list of individual dates (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PhotosList,
			},
			{
				Name:      "import",
				Usage:     "Import photos by remote id",
				ArgsUsage: "[remote ids...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection name to attach imports to",
					},
					&cli.BoolFlag{
						Name:  "queue",
						Usage: "Enqueue for background processing instead of importing inline",
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Base path for a CSV import report",
					},
				},
				Action: r.PhotosImport,
			},
		},
	}
}

// albumsCommand handles shared album listing and album-aware imports.
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "albums",
		Usage: "Browse shared albums and import their contents",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List shared albums",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Page size (defaults to import.page_size)",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Page token from a previous listing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "import",
				Usage: "Import the contents of selected albums",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSON file with the album selection",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection name to attach imports to",
					},
					&cli.BoolFlag{
						Name:  "events",
						Usage: "Create events from imported albums",
						Value: true,
					},
				},
				Action: r.AlbumsImport,
			},
		},
	}
}

// queueCommand handles the durable background queue.
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Process and inspect background tasks",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Drain pending tasks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of tasks to process (0 = unbounded)",
					},
				},
				Action: r.QueueRun,
			},
			{
				Name:   "status",
				Usage:  "Show task counts by status",
				Action: r.QueueStatus,
			},
			{
				Name:  "watch",
				Usage: "Drain the queue on a cron schedule",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cron",
						Usage: "Cron expression (defaults to queue.watch_cron)",
					},
				},
				Action: r.QueueWatch,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive photo imports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for photo imports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Collection name to attach imports to",
			},
		},
		Action: r.TUI,
	}
}
