// package formatter serializes playlist rows to CSV files importable by
// AboveVTT-style virtual tabletop audio tools
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/firelightrpg/dropbox-playlists/internal/models"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

var playlistHeader = []string{"name", "src", "tags"}

// WritePlaylist writes the fixed header followed by one record per row.
// encoding/csv double-quotes fields containing delimiters or newlines.
//
// An empty row set writes nothing and returns [shared.ErrNothingToDo] so the
// caller can log a warning instead of producing a headerless stub file.
func WritePlaylist(w io.Writer, rows []models.PlaylistRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no playlist rows", shared.ErrNothingToDo)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(playlistHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write([]string{row.Name, row.Src, row.Tags}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	return nil
}

// WritePlaylistFile serializes rows and writes them to path, creating parent
// directories as needed. Returns the path written.
func WritePlaylistFile(path string, rows []models.PlaylistRow) (string, error) {
	var buf bytes.Buffer
	if err := WritePlaylist(&buf, rows); err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write playlist file: %w", err)
	}

	return path, nil
}
