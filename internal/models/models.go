// package models defines the data model for the playlist builder
package models

import (
	"encoding/json"
	"time"

	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

// Track represents one audio file discovered under the library root,
// together with everything needed for its playlist row.
type Track struct {
	LocalPath  string   // absolute or root-relative path on disk; unique per run
	Name       string   // display name: basename without extension
	RemotePath string   // corresponding path under the Dropbox root
	Link       string   // resolved shareable URL
	Tags       []string // folder segments unioned with embedded metadata
}

// Row converts the track into its playlist CSV form.
func (t Track) Row() PlaylistRow {
	return PlaylistRow{
		Name: t.Name,
		Src:  t.Link,
		Tags: shared.JoinTags(t.Tags),
	}
}

// Entry converts the track into its persisted cache form.
func (t Track) Entry() CacheEntry {
	return CacheEntry{
		Name: t.Name,
		Link: t.Link,
		Tags: shared.JoinTags(t.Tags),
	}
}

// PlaylistRow is one record of the output CSV (after the name,src,tags header).
type PlaylistRow struct {
	Name string
	Src  string
	Tags string
}

// CacheEntry is the persisted record for a previously resolved file, keyed in
// the cache by local path. On disk each entry is a 3-element JSON array
// [name, link, tags]; cache files written by earlier generations of this tool
// use the same shape.
type CacheEntry struct {
	Name string
	Link string
	Tags string
}

// MarshalJSON serializes the entry in its on-disk array form.
func (e CacheEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{e.Name, e.Link, e.Tags})
}

// UnmarshalJSON reads the on-disk array form.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	var record [3]string
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	e.Name, e.Link, e.Tags = record[0], record[1], record[2]
	return nil
}

// Track reconstructs a Track from a cache entry and its key.
func (e CacheEntry) Track(localPath string) Track {
	return Track{
		LocalPath: localPath,
		Name:      e.Name,
		Link:      e.Link,
		Tags:      shared.SplitTags(e.Tags),
	}
}

// Run is the persisted summary of one completed build.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesScanned int
	CacheHits    int
	LinksReused  int
	LinksCreated int
	Failed       int
	RowsWritten  int
}

// RunTrack is one resolved track recorded against a run, kept for
// disambiguating playlist rows whose display names collide.
type RunTrack struct {
	RunID     string
	LocalPath string
	Name      string
	Link      string
	Tags      string
	CacheHit  bool
}
