// Package tasks orchestrates playlist builds with real-time progress reporting.
//
// # The build pipeline
//
// [BuildEngine.Build] performs one run-to-completion pass:
//
//  1. Scan the library root for audio files (sorted, deduplicated)
//  2. For each file, consult the persisted link cache first; on a hit the
//     stored name, link, and tags are reused with zero remote calls
//  3. On a miss, derive tags from folder segments plus embedded metadata
//     and resolve a shared link (existing link preferred, created otherwise)
//  4. Write the master playlist CSV, plus per-folder playlists when enabled
//  5. Rewrite the cache file once, at the end of the run
//
// The pipeline is strictly sequential and single-threaded: the cache is owned
// by the run for its whole duration, so there is no locking. An interrupted
// run loses only unflushed cache updates, which is safe because resolution is
// idempotent and cheap to repeat against a warm remote.
//
// # Failure policy
//
// Unreadable metadata falls back to folder-derived tags. A per-file remote
// failure excludes that file from the playlist with a warning. Neither aborts
// the run; only scan, cache, and output I/O errors do. Zero discovered files
// produces an empty result, no playlist file, and no error.
//
// # Progress reporting
//
// All operations emit [ProgressUpdate] values on a caller-supplied channel.
// Sends use select with default so a slow consumer never blocks the build.
package tasks
