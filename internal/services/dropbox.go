// Dropbox API implementation of [LinkProvider]
//
// Request/response shapes follow https://www.dropbox.com/developers/documentation/http/documentation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/firelightrpg/dropbox-playlists/internal/shared"
)

const dropboxAPIBaseURL = "https://api.dropboxapi.com"

// Dropbox throttles the sharing endpoints aggressively; a modest client-side
// limit avoids burning retries on 429s during large library builds.
const (
	dropboxRequestsPerSecond = 4
	dropboxBurst             = 8
)

type dropboxErrorResponse struct {
	ErrorSummary string `json:"error_summary"`
}

type dropboxSharedLink struct {
	Tag       string `json:".tag"`
	URL       string `json:"url"`
	PathLower string `json:"path_lower"`
	Name      string `json:"name"`
}

type listSharedLinksRequest struct {
	Path       string `json:"path"`
	DirectOnly bool   `json:"direct_only"`
}

type listSharedLinksResponse struct {
	Links   []dropboxSharedLink `json:"links"`
	HasMore bool                `json:"has_more"`
}

type createSharedLinkRequest struct {
	Path string `json:"path"`
}

// DropboxService implements the LinkProvider interface for the Dropbox HTTP API.
// Uses an [oauth2] bearer-token transport and a client-side rate limiter.
type DropboxService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDropboxService creates a new Dropbox service with the given access token.
// baseURL overrides the production API host (tests); client overrides the
// oauth2 transport entirely.
func NewDropboxService(accessToken, baseURL string, client *http.Client) (*DropboxService, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing Dropbox access token", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = dropboxAPIBaseURL
	}
	if client == nil {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		client = oauth2.NewClient(context.Background(), src)
	}

	return &DropboxService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(dropboxRequestsPerSecond), dropboxBurst),
	}, nil
}

// Name returns the provider name.
func (d *DropboxService) Name() string { return "Dropbox" }

// post performs a rate-limited POST to an RPC endpoint. A nil payload sends an
// empty body, which Dropbox accepts for argument-less endpoints.
func (d *DropboxService) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// errorSummary extracts Dropbox's error_summary field from an error body.
func errorSummary(data []byte) string {
	var derr dropboxErrorResponse
	if err := json.Unmarshal(data, &derr); err == nil && derr.ErrorSummary != "" {
		return derr.ErrorSummary
	}
	return strings.TrimSpace(string(data))
}

// Verify checks the access token against /2/users/get_current_account.
func (d *DropboxService) Verify(ctx context.Context) error {
	status, data, err := d.post(ctx, "/2/users/get_current_account", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: access token is invalid or expired", shared.ErrAuthFailed)
	default:
		return fmt.Errorf("%w: get_current_account status %d: %s", shared.ErrAPIRequest, status, errorSummary(data))
	}
}

// ListSharedLink returns the existing shared link whose path matches
// remotePath case-insensitively, or "" when the file has no link yet.
// When Dropbox returns duplicate candidates the first match wins.
func (d *DropboxService) ListSharedLink(ctx context.Context, remotePath string) (string, error) {
	payload := listSharedLinksRequest{Path: remotePath, DirectOnly: true}
	status, data, err := d.post(ctx, "/2/sharing/list_shared_links", payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: list_shared_links status %d: %s", shared.ErrAPIRequest, status, errorSummary(data))
	}

	var out listSharedLinksResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: invalid list_shared_links response: %v", shared.ErrAPIRequest, err)
	}

	want := strings.ToLower(remotePath)
	for _, link := range out.Links {
		if link.PathLower == want {
			return link.URL, nil
		}
	}

	return "", nil
}

// CreateSharedLink requests a new shared link for remotePath. When Dropbox
// reports the link already exists (409 shared_link_already_exists, possible
// when another client raced us) it falls back to the list call.
func (d *DropboxService) CreateSharedLink(ctx context.Context, remotePath string) (string, error) {
	payload := createSharedLinkRequest{Path: remotePath}
	status, data, err := d.post(ctx, "/2/sharing/create_shared_link_with_settings", payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if status == http.StatusConflict && strings.Contains(errorSummary(data), "shared_link_already_exists") {
		link, err := d.ListSharedLink(ctx, remotePath)
		if err != nil {
			return "", err
		}
		if link == "" {
			return "", fmt.Errorf("%w: link reported existing but not listed for %s", shared.ErrAPIRequest, remotePath)
		}
		return link, nil
	}

	if status != http.StatusOK {
		return "", fmt.Errorf("%w: create_shared_link_with_settings status %d: %s", shared.ErrAPIRequest, status, errorSummary(data))
	}

	var link dropboxSharedLink
	if err := json.Unmarshal(data, &link); err != nil {
		return "", fmt.Errorf("%w: invalid create_shared_link response: %v", shared.ErrAPIRequest, err)
	}
	if link.URL == "" {
		return "", fmt.Errorf("%w: create_shared_link returned no URL for %s", shared.ErrAPIRequest, remotePath)
	}

	return link.URL, nil
}
