package tasks

import (
	"fmt"

	"github.com/firelightrpg/dropbox-playlists/internal/links"
)

// ProgressUpdate represents a progress event during a build run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ScanLibrary Phase = iota
	ResolveLinks
	WritePlaylist
	FlushCache
)

func (p Phase) String() string {
	switch p {
	case ScanLibrary:
		return "scan_library"
	case ResolveLinks:
		return "resolve_links"
	case WritePlaylist:
		return "write_playlist"
	case FlushCache:
		return "flush_cache"
	default:
		return ""
	}
}

func scanUpdate(root string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scanning %s for audio files...", root),
	}
}

func scanDoneUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d audio files", count),
	}
}

func resolveUpdate(step, total int, name string, source links.ResolveSource) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveLinks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%s)", step, total, name, source),
	}
}

func resolveFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveLinks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func writeUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WritePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing playlist: %s", path),
	}
}

func flushUpdate(entries int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FlushCache,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving link cache (%d entries): %s", entries, path),
	}
}
