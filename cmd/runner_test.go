package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	th "github.com/firelightrpg/dropbox-playlists/internal/testing"
	"github.com/urfave/cli/v3"
)

// writeTestConfig writes a config file wired to temp directories and returns its path.
func writeTestConfig(t *testing.T, dir, root string) string {
	t.Helper()
	configPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[credentials.dropbox]
access_token = "test-token"

[library]
local_root = %q
remote_root = "/Apps/music"
extensions = [".mp3"]
playlist_file = "playlist.csv"
cache_file = "playlist_directory.json"
per_folder = false

[database]
path = %q
max_open_conns = 10
max_idle_conns = 5
`, root, filepath.Join(dir, "history.db"))
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	t.Setenv("DROPBOX_ACCESS_TOKEN", "")
	t.Setenv("DROPBOX_ROOT_FOLDER", "")
	t.Setenv("LOCAL_ROOT_FOLDER", "")
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			provider := &th.MockProvider{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Provider: provider,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.provider != provider {
				t.Error("expected provider to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"build", "auth", "setup", "cache", "history"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("command %d = %s, want %s", i, commands[i].Name, name)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})
}

func TestCommands(t *testing.T) {
	newApp := func(runner *Runner) *cli.Command {
		return &cli.Command{Name: "dbplaylist", Commands: runner.register()}
	}

	t.Run("build produces playlist end to end", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "Album", "Artist")
		configPath := writeTestConfig(t, dir, root)

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(output),
			Output:   output,
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "build", "--config", configPath})
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}

		th.AssertFileExists(t, filepath.Join(root, "playlist.csv"))
		th.AssertFileExists(t, filepath.Join(root, "playlist_directory.json"))
		th.AssertFileExists(t, filepath.Join(dir, "history.db"))
		if !strings.Contains(output.String(), "Build Complete") {
			t.Errorf("expected summary in output, got %s", output.String())
		}
	})

	t.Run("build verbose enables debug logging", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "", "")
		configPath := writeTestConfig(t, dir, root)

		logBuf := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(logBuf),
			Output:   &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "build", "--config", configPath, "--no-history", "--verbose"})
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		if !strings.Contains(logBuf.String(), "resolved shared link") {
			t.Errorf("expected debug log output with --verbose, got %s", logBuf.String())
		}
	})

	t.Run("build with no-history skips database", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "", "")
		configPath := writeTestConfig(t, dir, root)

		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "build", "--config", configPath, "--no-history"})
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}

		th.AssertNoFile(t, filepath.Join(dir, "history.db"))
	})

	t.Run("build fails without credentials", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()

		runner := NewRunner(RunnerOpts{
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{
			"dbplaylist", "build", "--config", filepath.Join(dir, "missing.toml"),
			"--root", dir, "--remote-root", "/Apps/music",
		})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("build fails when verification fails", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "", "")
		configPath := writeTestConfig(t, dir, root)

		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{VerifyErr: shared.ErrAuthFailed},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "build", "--config", configPath})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("auth check reports success", func(t *testing.T) {
		clearEnvOverrides(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   output,
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "auth", "check"})
		if err != nil {
			t.Fatalf("auth check failed: %v", err)
		}
		if !strings.Contains(output.String(), "authentication OK") {
			t.Errorf("expected success message, got %s", output.String())
		}
	})

	t.Run("auth check reports failure", func(t *testing.T) {
		clearEnvOverrides(t)
		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{VerifyErr: shared.ErrAuthFailed},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "auth", "check"})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("setup creates config and database", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		// Default database path is relative to the working directory, so
		// point the template-created config at the temp dir via chdir.
		t.Chdir(dir)

		runner := NewRunner(RunnerOpts{
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "setup", "--config", configPath})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		th.AssertFileExists(t, configPath)
	})

	t.Run("cache stats and clear", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "", "")
		configPath := writeTestConfig(t, dir, root)

		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   &bytes.Buffer{},
		})

		if err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "build", "--config", configPath, "--no-history"}); err != nil {
			t.Fatalf("build failed: %v", err)
		}

		output := &bytes.Buffer{}
		runner.output = output
		if err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "cache", "stats", "--config", configPath, "--json"}); err != nil {
			t.Fatalf("cache stats failed: %v", err)
		}
		if !strings.Contains(output.String(), `"entries":1`) {
			t.Errorf("expected one cache entry, got %s", output.String())
		}

		if err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "cache", "clear", "--config", configPath}); err != nil {
			t.Fatalf("cache clear failed: %v", err)
		}
		th.AssertNoFile(t, filepath.Join(root, "playlist_directory.json"))

		// Clearing again is a no-op, not an error.
		if err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "cache", "clear", "--config", configPath}); err != nil {
			t.Fatalf("second cache clear failed: %v", err)
		}
	})

	t.Run("history show with unknown id fails", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "", "")
		configPath := writeTestConfig(t, dir, root)

		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "history", "show", "--config", configPath, "--id", "bogus"})
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		// Main treats ErrNothingToDo as a clean no-op; a bad id must not match it.
		if errors.Is(err, shared.ErrNothingToDo) {
			t.Error("unknown run id must exit non-zero")
		}
	})

	t.Run("history list after build", func(t *testing.T) {
		clearEnvOverrides(t)
		dir := t.TempDir()
		root := filepath.Join(dir, "music")
		th.WriteID3v2(t, filepath.Join(root, "Rock", "song.mp3"), "", "")
		configPath := writeTestConfig(t, dir, root)

		runner := NewRunner(RunnerOpts{
			Provider: &th.MockProvider{},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   &bytes.Buffer{},
		})

		if err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "build", "--config", configPath}); err != nil {
			t.Fatalf("build failed: %v", err)
		}

		output := &bytes.Buffer{}
		runner.output = output
		if err := newApp(runner).Run(context.Background(), []string{"dbplaylist", "history", "list", "--config", configPath}); err != nil {
			t.Fatalf("history list failed: %v", err)
		}
		if !strings.Contains(output.String(), "scanned=1") {
			t.Errorf("expected run summary in history, got %s", output.String())
		}
	})
}
