package main

import (
	"context"
	"errors"
	"os"

	"github.com/firelightrpg/dropbox-playlists/internal/services"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	var provider services.LinkProvider
	if config.Credentials.Dropbox.AccessToken != "" {
		if svc, err := services.NewDropboxService(
			config.Credentials.Dropbox.AccessToken,
			config.Credentials.Dropbox.APIBaseURL,
			nil,
		); err == nil {
			provider = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Provider: provider,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "dbplaylist",
		Usage:    "Build AboveVTT playlists from Dropbox-hosted audio libraries",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNothingToDo) {
			logger.Warn("nothing to do")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
