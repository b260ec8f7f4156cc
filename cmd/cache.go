package main

import (
	"context"
	"fmt"
	"os"

	"github.com/firelightrpg/dropbox-playlists/internal/links"
	"github.com/urfave/cli/v3"
)

// cacheStats is the JSON shape for 'cache stats --json'.
type cacheStats struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// CacheStats reports the size and location of the shared link cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))
	cachePath := libraryPath(config.Library.LocalRoot, config.Library.CacheFile)

	cache, err := links.LoadCache(cachePath)
	if err != nil {
		return fmt.Errorf("failed to load cache: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(cacheStats{Path: cache.Path(), Entries: cache.Len()}, cmd.Bool("pretty"))
	}

	r.writePlain("Cache: %s\n", cache.Path())
	r.writePlain("Entries: %d\n", cache.Len())
	if cache.Len() == 0 {
		r.writePlain("%s\n", styles.help.Render("Empty cache; the next build resolves every file remotely."))
	}
	return nil
}

// CacheClear deletes the link cache file, forcing a full re-resolve next build.
//
// Shared links on Dropbox are untouched; existing links are re-adopted rather
// than recreated when the cache is rebuilt.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))
	cachePath := libraryPath(config.Library.LocalRoot, config.Library.CacheFile)

	if err := os.Remove(cachePath); err != nil {
		if os.IsNotExist(err) {
			r.writePlainln("Cache already empty: %s", cachePath)
			return nil
		}
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared", "path", cachePath)
	r.writePlainln("%s %s", styles.ok.Render("✓ Cache cleared:"), cachePath)
	return nil
}
