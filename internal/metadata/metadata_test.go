package metadata

import (
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	th "github.com/firelightrpg/dropbox-playlists/internal/testing"
)

func TestFolderTags(t *testing.T) {
	tc := []struct {
		name string
		root string
		path string
		want []string
	}{
		{
			name: "nested folders",
			root: "/music",
			path: "/music/Rock/Classics/song.mp3",
			want: []string{"Rock", "Classics"},
		},
		{
			name: "single folder",
			root: "/music",
			path: "/music/Ambience/rain.mp3",
			want: []string{"Ambience"},
		},
		{
			name: "file directly under root",
			root: "/music",
			path: "/music/song.mp3",
			want: nil,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FolderTags(tt.root, filepath.FromSlash(tt.path))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FolderTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadTags(t *testing.T) {
	t.Run("Album and comma-separated artists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "song.mp3")
		th.WriteID3v2(t, path, "Greatest Hits", "Artist A, Artist B")

		tags, err := ReadTags(path)
		if err != nil {
			t.Fatalf("ReadTags failed: %v", err)
		}

		want := []string{"Greatest Hits", "Artist A", "Artist B"}
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("ReadTags() = %v, want %v", tags, want)
		}
	})

	t.Run("Whitespace trimmed from contributors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "song.mp3")
		th.WriteID3v2(t, path, "", "  Artist A ,  Artist B  ")

		tags, err := ReadTags(path)
		if err != nil {
			t.Fatalf("ReadTags failed: %v", err)
		}

		want := []string{"Artist A", "Artist B"}
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("ReadTags() = %v, want %v", tags, want)
		}
	})

	t.Run("No metadata container", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "song.mp3")
		th.WriteRawFile(t, path)

		_, err := ReadTags(path)
		if !errors.Is(err, shared.ErrNoMetadata) {
			t.Errorf("expected ErrNoMetadata, got %v", err)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := ReadTags(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestDeriveTags(t *testing.T) {
	t.Run("Union of folder and embedded tags", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "Rock", "Song.mp3")
		th.WriteID3v2(t, path, "Greatest Hits", "Artist A, Artist B")

		tags, err := DeriveTags(root, path)
		if err != nil {
			t.Fatalf("DeriveTags failed: %v", err)
		}

		want := []string{"Artist A", "Artist B", "Greatest Hits", "Rock"}
		sort.Strings(want)
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("DeriveTags() = %v, want %v", tags, want)
		}
	})

	t.Run("Album matching folder name appears once", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "Greatest Hits", "Song.mp3")
		th.WriteID3v2(t, path, "Greatest Hits", "Artist A")

		tags, err := DeriveTags(root, path)
		if err != nil {
			t.Fatalf("DeriveTags failed: %v", err)
		}

		count := 0
		for _, tag := range tags {
			if tag == "Greatest Hits" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected Greatest Hits exactly once, got %v", tags)
		}
	})

	t.Run("Metadata failure falls back to folder tags", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "Battle", "drums.mp3")
		th.WriteRawFile(t, path)

		tags, err := DeriveTags(root, path)
		if !errors.Is(err, shared.ErrNoMetadata) {
			t.Errorf("expected ErrNoMetadata, got %v", err)
		}

		want := []string{"Battle"}
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("expected folder tags %v, got %v", want, tags)
		}
	})
}
