package main

import (
	"context"
	"errors"
	"os"

	"github.com/picshuttle/picshuttle/internal/services"
	"github.com/picshuttle/picshuttle/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var connector *services.LibraryConnector
	if config.Credentials.Photos.ClientID != "" && config.Credentials.Photos.ClientSecret != "" {
		if c, err := services.NewLibraryConnector(config.Credentials.Photos.Map(), config.Import.RequestsPerSecond); err == nil {
			connector = c
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Connector:  connector,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "picshuttle",
		Usage:    "Import photos and albums from a remote library into local storage",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
