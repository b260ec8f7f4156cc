// package services defines interface LinkProvider for file-hosting HTTP APIs
package services

import (
	"context"
)

// LinkProvider defines the two sharing operations the playlist builder needs
// from a file host, plus a startup credential check. The build engine depends
// only on this contract, never on a vendor SDK.
type LinkProvider interface {
	// Verify checks that the configured credential is valid.
	// Called once before any file is scanned; failure aborts the run.
	Verify(ctx context.Context) error

	// ListSharedLink returns the existing shared link for remotePath, or the
	// empty string when none exists. Path comparison is case-insensitive
	// because the host may normalize case.
	ListSharedLink(ctx context.Context, remotePath string) (string, error)

	// CreateSharedLink creates a new shared link for remotePath.
	CreateSharedLink(ctx context.Context, remotePath string) (string, error)

	// Name returns the name of the provider (e.g., "Dropbox")
	Name() string
}
