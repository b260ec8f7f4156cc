// package shared defines helpers used across the playlist builder
package shared

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TagSeparator joins a track's tag set into the single string stored in the
// cache file and the playlist CSV.
const TagSeparator = "|"

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// JoinTags flattens a tag set into its single-string form.
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// SplitTags is the inverse of [JoinTags]. An empty string yields a nil slice.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, TagSeparator)
}

// DedupeTags collapses duplicates and drops empty values, returning the set in
// sorted order so downstream output is deterministic.
func DedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
