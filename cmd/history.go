package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/firelightrpg/dropbox-playlists/internal/models"
	"github.com/firelightrpg/dropbox-playlists/internal/repositories"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	"github.com/urfave/cli/v3"
)

// openHistory opens the history database with migrations applied.
func (r *Runner) openHistory(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// HistoryList prints recent build runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		r.writePlainln("No recorded runs. Run 'dbplaylist build' first.")
		return nil
	}

	r.writePlain("%s\n", styles.title.Render("Recent builds"))
	for _, run := range runs {
		r.writePlain("%s  %s  scanned=%d hits=%d reused=%d created=%d failed=%d rows=%d\n",
			run.ID,
			run.StartedAt.Format(time.RFC3339),
			run.FilesScanned,
			run.CacheHits,
			run.LinksReused,
			run.LinksCreated,
			run.Failed,
			run.RowsWritten,
		)
	}

	return nil
}

// runDetail is the JSON shape for 'history show --json'.
type runDetail struct {
	Run    models.Run        `json:"run"`
	Tracks []models.RunTrack `json:"tracks"`
}

// HistoryShow prints one run with its resolved tracks.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)

	run, err := repo.Get(cmd.String("id"))
	if err != nil {
		return err
	}
	tracks, err := repo.Tracks(run.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runDetail{Run: run, Tracks: tracks}, true)
	}

	r.writePlain("%s\n", styles.title.Render("Build "+run.ID))
	r.writePlain("Started:   %s\n", run.StartedAt.Format(time.RFC3339))
	r.writePlain("Finished:  %s\n", run.FinishedAt.Format(time.RFC3339))
	r.writePlain("Scanned:   %d\n", run.FilesScanned)
	r.writePlain("Written:   %d (cache hits %d, reused %d, created %d, failed %d)\n",
		run.RowsWritten, run.CacheHits, run.LinksReused, run.LinksCreated, run.Failed)

	if len(tracks) > 0 {
		r.writePlain("\nTracks:\n")
		for _, track := range tracks {
			marker := " "
			if track.CacheHit {
				marker = "*"
			}
			r.writePlain("  %s %s [%s]\n", marker, track.Name, track.Tags)
		}
		r.writePlain("%s\n", styles.help.Render("* served from the link cache"))
	}

	return nil
}
