package links

import (
	"context"
	"fmt"

	"github.com/firelightrpg/dropbox-playlists/internal/services"
	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

// ResolveSource records where a link came from.
type ResolveSource int

const (
	SourceNone     ResolveSource = iota
	SourceCache                  // resolved from the persisted cache, no remote call
	SourceExisting               // adopted from an existing remote link
	SourceCreated                // newly created remote link
)

func (s ResolveSource) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceExisting:
		return "existing"
	case SourceCreated:
		return "created"
	default:
		return "none"
	}
}

// Resolver maps remote paths to shareable links through a [services.LinkProvider].
//
// The persisted [Cache] short-circuits resolution before the Resolver is ever
// consulted (the cached record carries name and tags too, not just the URL),
// so Resolve always costs at least one remote call.
type Resolver struct {
	provider services.LinkProvider
}

// NewResolver creates a Resolver backed by the given provider.
func NewResolver(provider services.LinkProvider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve returns a durable shareable link for remotePath: an existing remote
// link when one is present, otherwise a newly created one. Failures wrap
// [shared.ErrLinkUnavailable] so callers can exclude the file and continue.
func (r *Resolver) Resolve(ctx context.Context, remotePath string) (string, ResolveSource, error) {
	link, err := r.provider.ListSharedLink(ctx, remotePath)
	if err != nil {
		return "", SourceNone, fmt.Errorf("%w: %s: %v", shared.ErrLinkUnavailable, remotePath, err)
	}
	if link != "" {
		return link, SourceExisting, nil
	}

	link, err = r.provider.CreateSharedLink(ctx, remotePath)
	if err != nil {
		return "", SourceNone, fmt.Errorf("%w: %s: %v", shared.ErrLinkUnavailable, remotePath, err)
	}

	return link, SourceCreated, nil
}
