package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/firelightrpg/dropbox-playlists/internal/services"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	"github.com/firelightrpg/dropbox-playlists/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	provider services.LinkProvider
	logger   *log.Logger
	output   io.Writer
	engine   *tasks.BuildEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Provider services.LinkProvider
	Logger   *log.Logger
	Output   io.Writer
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

	return &Runner{
		config:   opts.Config,
		provider: opts.Provider,
		logger:   opts.Logger,
		output:   opts.Output,
		engine:   tasks.NewBuildEngine(opts.Provider, opts.Logger),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		buildCommand, authCommand, setupCommand, cacheCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reloads configuration from path when the file exists, falling
// back to the Runner's startup config. Environment overrides always apply.
func (r *Runner) loadConfig(path string) *shared.Config {
	config := r.config
	if _, err := os.Stat(path); err == nil {
		if loaded, err := shared.LoadConfig(path); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		}
	}
	config.ApplyEnv()
	return config
}

// resolveProvider returns the link provider for an action, constructing one
// from the given config when the Runner was started without credentials.
func (r *Runner) resolveProvider(config *shared.Config) (services.LinkProvider, error) {
	if r.provider != nil {
		return r.provider, nil
	}
	return services.NewDropboxService(
		config.Credentials.Dropbox.AccessToken,
		config.Credentials.Dropbox.APIBaseURL,
		nil,
	)
}

// libraryPath resolves a configured output path against the library root.
func libraryPath(root, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(root, file)
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
