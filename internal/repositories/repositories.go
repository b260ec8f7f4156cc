package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/firelightrpg/dropbox-playlists/internal/models"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

// RunRepository persists build run summaries and their per-track records.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run summary and its track records in a single transaction.
func (r *RunRepository) Create(run models.Run, tracks []models.RunTrack) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (id, started_at, finished_at, files_scanned, cache_hits, links_reused, links_created, failed, rows_written)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		run.ID,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.FilesScanned,
		run.CacheHits,
		run.LinksReused,
		run.LinksCreated,
		run.Failed,
		run.RowsWritten,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	trackQuery := `
		INSERT INTO run_tracks (run_id, local_path, name, link, tags, cache_hit)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for _, track := range tracks {
		_, err = tx.Exec(trackQuery,
			run.ID,
			track.LocalPath,
			track.Name,
			track.Link,
			track.Tags,
			track.CacheHit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run track: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// List returns the most recent runs, newest first, up to limit.
func (r *RunRepository) List(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, started_at, finished_at, files_scanned, cache_hits, links_reused, links_created, failed, rows_written
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Get returns a single run by ID, or shared.ErrNotFound when no run matches.
func (r *RunRepository) Get(id string) (models.Run, error) {
	query := `
		SELECT id, started_at, finished_at, files_scanned, cache_hits, links_reused, links_created, failed, rows_written
		FROM runs
		WHERE id = ?
	`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return models.Run{}, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return models.Run{}, fmt.Errorf("%w: no run with id %s", shared.ErrNotFound, id)
	}

	return scanRun(rows)
}

// Tracks returns the per-track records for a run, ordered by local path.
func (r *RunRepository) Tracks(runID string) ([]models.RunTrack, error) {
	query := `
		SELECT run_id, local_path, name, link, tags, cache_hit
		FROM run_tracks
		WHERE run_id = ?
		ORDER BY local_path
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.RunTrack
	for rows.Next() {
		var track models.RunTrack
		if err := rows.Scan(
			&track.RunID,
			&track.LocalPath,
			&track.Name,
			&track.Link,
			&track.Tags,
			&track.CacheHit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run track: %w", err)
		}
		tracks = append(tracks, track)
	}

	return tracks, rows.Err()
}

func scanRun(rows *sql.Rows) (models.Run, error) {
	var run models.Run
	var startedAt, finishedAt string

	if err := rows.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&run.FilesScanned,
		&run.CacheHits,
		&run.LinksReused,
		&run.LinksCreated,
		&run.Failed,
		&run.RowsWritten,
	); err != nil {
		return models.Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)

	return run, nil
}
