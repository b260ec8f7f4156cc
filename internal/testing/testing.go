// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MockProvider is a test double for [services.LinkProvider].
//
// Links maps lowercase remote paths to pre-existing shared links. Created
// links are synthesized from the remote path and recorded in Created.
type MockProvider struct {
	VerifyErr    error
	ListErr      error
	CreateErr    error
	CreateErrFor map[string]error // per-path create failures, keyed by lowercase remote path
	Links        map[string]string

	ListCalls   int
	CreateCalls int
	Created     []string
}

func (m *MockProvider) Verify(ctx context.Context) error {
	return m.VerifyErr
}

func (m *MockProvider) ListSharedLink(ctx context.Context, remotePath string) (string, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return "", m.ListErr
	}
	return m.Links[strings.ToLower(remotePath)], nil
}

func (m *MockProvider) CreateSharedLink(ctx context.Context, remotePath string) (string, error) {
	m.CreateCalls++
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if err, ok := m.CreateErrFor[strings.ToLower(remotePath)]; ok {
		return "", err
	}
	link := "https://www.dropbox.com/s/mock" + strings.ReplaceAll(remotePath, " ", "%20")
	m.Created = append(m.Created, remotePath)
	return link, nil
}

func (m *MockProvider) Name() string { return "mock" }

// RemoteCalls returns the total number of list and create calls made.
func (m *MockProvider) RemoteCalls() int {
	return m.ListCalls + m.CreateCalls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// WriteID3v2 writes a minimal MP3-like file carrying an ID3v2.3 tag with the
// given album (TALB) and artist (TPE1) frames. Empty values omit the frame.
func WriteID3v2(t *testing.T, path, album, artist string) {
	t.Helper()

	frame := func(id, value string) []byte {
		payload := append([]byte{0}, []byte(value)...) // ISO-8859-1 encoding marker
		b := []byte(id)
		size := make([]byte, 4)
		binary.BigEndian.PutUint32(size, uint32(len(payload)))
		b = append(b, size...)
		b = append(b, 0, 0)
		return append(b, payload...)
	}

	var frames []byte
	if album != "" {
		frames = append(frames, frame("TALB", album)...)
	}
	if artist != "" {
		frames = append(frames, frame("TPE1", artist)...)
	}

	size := len(frames)
	// Tag size is a 28-bit syncsafe integer.
	header := []byte{
		'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, append(header, frames...), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteRawFile writes an audio-extension file with no metadata container.
func WriteRawFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("not an id3 tag"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// JSONResponse builds an *http.Response with a JSON string body, for use with
// [MockRoundTripper].
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}
