// Package models defines domain entities shared by the playlist build pipeline.
//
// The package contains two categories of types:
//
// 1. Per-run values constructed fresh by each build:
//   - [Track] : A discovered audio file with its derived tags and resolved link
//   - [PlaylistRow] : One record of the name,src,tags output CSV
//
// 2. Persisted records:
//   - [CacheEntry] : The on-disk link cache value, keyed by local path
//   - [Run] / [RunTrack] : Build summaries stored in the run-history database
//
// Conversions between the categories ([Track.Row], [Track.Entry],
// [CacheEntry.Track]) keep the tag flattening rule in one place.
package models
