package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/firelightrpg/dropbox-playlists/internal/repositories"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	"github.com/firelightrpg/dropbox-playlists/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Build runs a full playlist build: scan, resolve, write, record.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config := r.loadConfig(cmd.String("config"))

	if root := cmd.String("root"); root != "" {
		config.Library.LocalRoot = root
	}
	if remoteRoot := cmd.String("remote-root"); remoteRoot != "" {
		config.Library.RemoteRoot = remoteRoot
	}
	if cmd.Bool("per-folder") {
		config.Library.PerFolder = true
	}

	if err := config.Validate(); err != nil {
		return err
	}

	provider, err := r.resolveProvider(config)
	if err != nil {
		return err
	}

	r.logger.Info("verifying Dropbox credentials")
	if err := provider.Verify(ctx); err != nil {
		return fmt.Errorf("authentication check failed: %w", err)
	}

	engine := r.engine
	if provider != r.provider {
		engine = tasks.NewBuildEngine(provider, r.logger)
	}

	opts := tasks.BuildOptions{
		LocalRoot:    config.Library.LocalRoot,
		RemoteRoot:   config.Library.RemoteRoot,
		Extensions:   config.Library.Extensions,
		PlaylistFile: libraryPath(config.Library.LocalRoot, config.Library.PlaylistFile),
		CacheFile:    libraryPath(config.Library.LocalRoot, config.Library.CacheFile),
		PerFolder:    config.Library.PerFolder,
		Refresh:      cmd.Bool("refresh"),
	}

	r.writePlain("%s\n", styles.title.Render("Building playlists"))
	r.writePlain("Library: %s\n", opts.LocalRoot)
	r.writePlain("Dropbox: %s\n\n", opts.RemoteRoot)

	// Progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ScanLibrary:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.ResolveLinks:
				r.writePlain("   %s\n", update.Message)
			case tasks.WritePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.FlushCache:
				r.writePlain("💾 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Build(ctx, opts, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("%s\n", styles.ok.Render("Build Complete"))
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Files scanned:  %d\n", result.FilesScanned)
	r.writePlain("Cache hits:     %d\n", result.CacheHits)
	r.writePlain("Links reused:   %d\n", result.LinksReused)
	r.writePlain("Links created:  %d\n", result.LinksCreated)
	r.writePlain("Rows written:   %d\n", len(result.Rows))

	if result.PlaylistPath != "" {
		r.writePlain("Playlist:       %s\n", result.PlaylistPath)
	}
	for _, path := range result.FolderPaths {
		r.writePlain("Folder list:    %s\n", path)
	}

	if result.Failed > 0 {
		r.writePlain("\n%s\n", styles.warn.Render(fmt.Sprintf("Excluded %d files without shared links:", result.Failed)))
		for _, tr := range result.Tracks {
			if tr.Err != nil {
				r.writePlain("  - %s\n", tr.Track.LocalPath)
			}
		}
	}

	if !cmd.Bool("no-history") {
		r.recordHistory(config, result)
	}

	return nil
}

// recordHistory persists the run summary, best effort. A broken history
// database never fails a build that already wrote its playlists.
func (r *Runner) recordHistory(config *shared.Config, result *tasks.BuildResult) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		r.logger.Warn("skipping run history", "error", err)
		return
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("skipping run history", "error", err)
		return
	}

	repo := repositories.NewRunRepository(db)
	if err := repo.Create(result.Summary(), result.RunTracks()); err != nil {
		r.logger.Warn("failed to record run history", "error", err)
		return
	}

	r.logger.Info("run recorded", "id", result.RunID)
}
