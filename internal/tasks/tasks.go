// package tasks implements the playlist build pipeline.
//
// The core abstraction is BuildEngine, which orchestrates the scan, tag
// derivation, link resolution, and playlist writing for one run. Progress is
// emitted via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/firelightrpg/dropbox-playlists/internal/formatter"
	"github.com/firelightrpg/dropbox-playlists/internal/links"
	"github.com/firelightrpg/dropbox-playlists/internal/metadata"
	"github.com/firelightrpg/dropbox-playlists/internal/models"
	"github.com/firelightrpg/dropbox-playlists/internal/scanner"
	"github.com/firelightrpg/dropbox-playlists/internal/services"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

// BuildOptions configures one build run.
type BuildOptions struct {
	LocalRoot    string   // scan root on disk
	RemoteRoot   string   // corresponding folder under the Dropbox root
	Extensions   []string // audio extensions; scanner default when empty
	PlaylistFile string   // master playlist output path
	CacheFile    string   // link cache path
	PerFolder    bool     // also write one playlist per top-level folder
	Refresh      bool     // ignore cached entries and re-resolve every file
}

// TrackResult records the outcome for a single scanned file.
type TrackResult struct {
	Track  models.Track
	Source links.ResolveSource // where the link came from
	Err    error               // non-nil when the file was excluded
}

// BuildResult contains all data from a completed build run.
type BuildResult struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesScanned int
	CacheHits    int
	LinksReused  int
	LinksCreated int
	Failed       int
	Rows         []models.PlaylistRow
	Tracks       []TrackResult
	PlaylistPath string   // master playlist, empty when nothing was written
	FolderPaths  []string // per-folder playlists, when enabled
}

// Summary returns the persisted form of the result.
func (r *BuildResult) Summary() models.Run {
	return models.Run{
		ID:           r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		FilesScanned: r.FilesScanned,
		CacheHits:    r.CacheHits,
		LinksReused:  r.LinksReused,
		LinksCreated: r.LinksCreated,
		Failed:       r.Failed,
		RowsWritten:  len(r.Rows),
	}
}

// RunTracks returns the persisted track records for the result.
func (r *BuildResult) RunTracks() []models.RunTrack {
	var tracks []models.RunTrack
	for _, tr := range r.Tracks {
		if tr.Err != nil {
			continue
		}
		tracks = append(tracks, models.RunTrack{
			RunID:     r.RunID,
			LocalPath: tr.Track.LocalPath,
			Name:      tr.Track.Name,
			Link:      tr.Track.Link,
			Tags:      shared.JoinTags(tr.Track.Tags),
			CacheHit:  tr.Source == links.SourceCache,
		})
	}
	return tracks
}

// BuildEngine runs playlist builds against a link provider.
type BuildEngine struct {
	provider services.LinkProvider
	logger   *log.Logger
}

// NewBuildEngine creates a BuildEngine with the provided dependencies.
func NewBuildEngine(provider services.LinkProvider, logger *log.Logger) *BuildEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BuildEngine{provider: provider, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *BuildEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Build performs one full run: scan, per-file cache lookup / tag derivation /
// link resolution, playlist writes, and a final cache flush.
//
// Per-file failures (unreadable metadata, link creation errors) are logged and
// the file excluded; only scan, cache, and output I/O errors abort the run.
// Zero discovered files is a valid no-op result, not an error.
func (e *BuildEngine) Build(ctx context.Context, opts BuildOptions, progress chan<- ProgressUpdate) (*BuildResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: link provider not initialized", shared.ErrServiceUnavailable)
	}

	result := &BuildResult{
		RunID:     shared.GenerateID(),
		StartedAt: time.Now().UTC(),
	}
	logger := shared.WithLogger(e.logger, "run", result.RunID)

	e.sendProgress(progress, scanUpdate(opts.LocalRoot))

	files, err := scanner.Scan(opts.LocalRoot, opts.Extensions)
	if err != nil {
		return nil, err
	}
	result.FilesScanned = len(files)
	e.sendProgress(progress, scanDoneUpdate(len(files)))

	if len(files) == 0 {
		logger.Warn("no audio files found", "root", opts.LocalRoot)
		result.FinishedAt = time.Now().UTC()
		return result, nil
	}

	cache, err := links.LoadCache(opts.CacheFile)
	if err != nil {
		return nil, err
	}
	resolver := links.NewResolver(e.provider)

	total := len(files)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !opts.Refresh {
			if entry, ok := cache.Get(file); ok {
				track := entry.Track(file)
				result.CacheHits++
				result.Rows = append(result.Rows, track.Row())
				result.Tracks = append(result.Tracks, TrackResult{Track: track, Source: links.SourceCache})
				e.sendProgress(progress, resolveUpdate(i+1, total, track.Name, links.SourceCache))
				continue
			}
		}

		track := models.Track{
			LocalPath:  file,
			Name:       strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			RemotePath: remotePath(opts.RemoteRoot, opts.LocalRoot, file),
		}

		tags, metaErr := metadata.DeriveTags(opts.LocalRoot, file)
		if metaErr != nil {
			logger.Warn("metadata unreadable, using folder tags only", "path", file, "error", metaErr)
		}
		track.Tags = tags

		link, source, err := resolver.Resolve(ctx, track.RemotePath)
		if err != nil {
			result.Failed++
			result.Tracks = append(result.Tracks, TrackResult{Track: track, Err: err})
			logger.Warn("shared link unavailable, excluding from playlist", "path", file, "error", err)
			e.sendProgress(progress, resolveFailedUpdate(i+1, total, track.Name, err))
			continue
		}
		track.Link = link

		switch source {
		case links.SourceExisting:
			result.LinksReused++
		case links.SourceCreated:
			result.LinksCreated++
		}
		logger.Debug("resolved shared link", "path", file, "source", source)

		cache.Put(file, track.Entry())
		result.Rows = append(result.Rows, track.Row())
		result.Tracks = append(result.Tracks, TrackResult{Track: track, Source: source})
		e.sendProgress(progress, resolveUpdate(i+1, total, track.Name, source))
	}

	e.sendProgress(progress, writeUpdate(opts.PlaylistFile))

	written, err := formatter.WritePlaylistFile(opts.PlaylistFile, result.Rows)
	switch {
	case errors.Is(err, shared.ErrNothingToDo):
		logger.Warn("no playlist created", "root", opts.LocalRoot)
	case err != nil:
		return nil, err
	default:
		result.PlaylistPath = written
	}

	if opts.PerFolder && len(result.Rows) > 0 {
		folderPaths, err := e.writeFolderPlaylists(opts, result)
		if err != nil {
			return nil, err
		}
		result.FolderPaths = folderPaths
	}

	e.sendProgress(progress, flushUpdate(cache.Len(), opts.CacheFile))
	if err := cache.Save(); err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// writeFolderPlaylists groups resolved tracks by their top-level folder under
// the scan root and writes one playlist inside each folder. Files sitting
// directly under the root appear only in the master playlist.
func (e *BuildEngine) writeFolderPlaylists(opts BuildOptions, result *BuildResult) ([]string, error) {
	groups := make(map[string][]models.PlaylistRow)
	var order []string

	for _, tr := range result.Tracks {
		if tr.Err != nil {
			continue
		}
		folder := topFolder(opts.LocalRoot, tr.Track.LocalPath)
		if folder == "" {
			continue
		}
		if _, ok := groups[folder]; !ok {
			order = append(order, folder)
		}
		groups[folder] = append(groups[folder], tr.Track.Row())
	}

	var paths []string
	for _, folder := range order {
		out := filepath.Join(opts.LocalRoot, folder, folder+"_playlist.csv")
		if _, err := formatter.WritePlaylistFile(out, groups[folder]); err != nil {
			return nil, fmt.Errorf("failed to write playlist for %s: %w", folder, err)
		}
		paths = append(paths, out)
	}

	return paths, nil
}

// topFolder returns the first path segment of file relative to root, or ""
// for files directly under root.
func topFolder(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// remotePath maps a local file to its path under the remote root, always
// using forward slashes as Dropbox expects.
func remotePath(remoteRoot, localRoot, file string) string {
	rel, err := filepath.Rel(localRoot, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return path.Join(remoteRoot, filepath.ToSlash(rel))
}
