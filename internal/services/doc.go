// Package services provides the remote-collaborator layer for the playlist builder.
//
// # LinkProvider
//
// The [LinkProvider] interface captures the only two sharing operations the
// build pipeline needs:
//
//  1. [LinkProvider.ListSharedLink] : look up an existing shared link
//  2. [LinkProvider.CreateSharedLink] : mint a new one
//
// plus [LinkProvider.Verify], a one-time credential check run before scanning
// starts so an expired token fails the run fast instead of per file.
//
// # Dropbox
//
// [DropboxService] implements the interface over the Dropbox HTTP API
// (api.dropboxapi.com RPC endpoints). It authenticates with a bearer token via
// an oauth2 static token source and rate-limits requests with
// golang.org/x/time/rate to stay under Dropbox's sharing-endpoint throttles.
//
// The base URL and HTTP client are injectable so tests can point the service
// at an httptest server.
package services
