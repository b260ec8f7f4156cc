// package metadata derives a track's tag set from folder structure and
// embedded audio metadata.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

// ReadTags extracts the album and artist values embedded in an audio file.
// Multiple contributing artists separated by commas become individual tags.
// Returns an error wrapping [shared.ErrNoMetadata] when the file carries no
// readable metadata container.
func ReadTags(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrNoMetadata, path, err)
	}

	var tags []string
	if album := strings.TrimSpace(m.Album()); album != "" {
		tags = append(tags, album)
	}
	for _, artist := range strings.Split(m.Artist(), ",") {
		if a := strings.TrimSpace(artist); a != "" {
			tags = append(tags, a)
		}
	}

	return tags, nil
}

// FolderTags returns each directory segment of path relative to root.
// Folder names encode genre and collection groupings, so each becomes a tag.
func FolderTags(root, path string) []string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	dir := filepath.Dir(rel)
	if dir == "." {
		return nil
	}

	var tags []string
	for _, seg := range strings.Split(dir, string(filepath.Separator)) {
		if seg != "" && seg != "." && seg != ".." {
			tags = append(tags, seg)
		}
	}
	return tags
}

// DeriveTags unions folder segments with embedded metadata into a single
// deduplicated, sorted tag set.
//
// When the file has no readable metadata the folder tags are still returned
// alongside the error; callers should log it and keep going rather than abort
// the run.
func DeriveTags(root, path string) ([]string, error) {
	tags := FolderTags(root, path)

	embedded, err := ReadTags(path)
	if err != nil {
		return shared.DedupeTags(tags), err
	}

	return shared.DedupeTags(append(tags, embedded...)), nil
}
