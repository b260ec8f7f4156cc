package formatter

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firelightrpg/dropbox-playlists/internal/models"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	th "github.com/firelightrpg/dropbox-playlists/internal/testing"
)

func TestWritePlaylist(t *testing.T) {
	t.Run("Header and rows", func(t *testing.T) {
		rows := []models.PlaylistRow{
			{Name: "song one", Src: "https://www.dropbox.com/s/a", Tags: "Greatest Hits|Rock"},
			{Name: "song two", Src: "https://www.dropbox.com/s/b", Tags: "Battle"},
		}

		var buf bytes.Buffer
		if err := WritePlaylist(&buf, rows); err != nil {
			t.Fatalf("WritePlaylist failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus two rows, got %d lines", len(lines))
		}
		if lines[0] != "name,src,tags" {
			t.Errorf("expected header name,src,tags, got %s", lines[0])
		}
		if lines[1] != "song one,https://www.dropbox.com/s/a,Greatest Hits|Rock" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
	})

	t.Run("Embedded delimiters are quoted", func(t *testing.T) {
		rows := []models.PlaylistRow{
			{Name: `song, with "comma"`, Src: "https://www.dropbox.com/s/a", Tags: "Rock"},
		}

		var buf bytes.Buffer
		if err := WritePlaylist(&buf, rows); err != nil {
			t.Fatalf("WritePlaylist failed: %v", err)
		}

		if !strings.Contains(buf.String(), `"song, with ""comma"""`) {
			t.Errorf("expected quoted field, got %s", buf.String())
		}
	})

	t.Run("Empty rows is a no-op condition", func(t *testing.T) {
		var buf bytes.Buffer
		err := WritePlaylist(&buf, nil)
		if !errors.Is(err, shared.ErrNothingToDo) {
			t.Errorf("expected ErrNothingToDo, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected nothing written, got %q", buf.String())
		}
	})

	t.Run("Writer failure surfaces", func(t *testing.T) {
		rows := []models.PlaylistRow{{Name: "a", Src: "b", Tags: "c"}}
		if err := WritePlaylist(&th.FWriter{}, rows); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestWritePlaylistFile(t *testing.T) {
	t.Run("Writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlist.csv")
		rows := []models.PlaylistRow{{Name: "song", Src: "https://x", Tags: "Rock"}}

		got, err := WritePlaylistFile(path, rows)
		if err != nil {
			t.Fatalf("WritePlaylistFile failed: %v", err)
		}
		if got != path {
			t.Errorf("expected returned path %s, got %s", path, got)
		}

		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "name,src,tags\n") {
			t.Errorf("expected CSV header, got %q", content)
		}
	})

	t.Run("Creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Rock", "Rock_playlist.csv")
		rows := []models.PlaylistRow{{Name: "song", Src: "https://x", Tags: "Rock"}}

		if _, err := WritePlaylistFile(path, rows); err != nil {
			t.Fatalf("WritePlaylistFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("No file created for empty rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlist.csv")

		_, err := WritePlaylistFile(path, nil)
		if !errors.Is(err, shared.ErrNothingToDo) {
			t.Errorf("expected ErrNothingToDo, got %v", err)
		}
		th.AssertNoFile(t, path)
	})
}
