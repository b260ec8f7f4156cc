package links

import (
	"context"
	"errors"
	"testing"

	"github.com/firelightrpg/dropbox-playlists/internal/shared"
	th "github.com/firelightrpg/dropbox-playlists/internal/testing"
)

func TestResolver(t *testing.T) {
	t.Run("Existing remote link adopted", func(t *testing.T) {
		provider := &th.MockProvider{
			Links: map[string]string{"/music/rock/song.mp3": "https://www.dropbox.com/s/existing"},
		}
		resolver := NewResolver(provider)

		link, source, err := resolver.Resolve(context.Background(), "/Music/Rock/Song.mp3")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if link != "https://www.dropbox.com/s/existing" {
			t.Errorf("expected existing link, got %s", link)
		}
		if source != SourceExisting {
			t.Errorf("expected SourceExisting, got %s", source)
		}
		if provider.CreateCalls != 0 {
			t.Errorf("expected no create call, got %d", provider.CreateCalls)
		}
	})

	t.Run("New link created when none exists", func(t *testing.T) {
		provider := &th.MockProvider{}
		resolver := NewResolver(provider)

		link, source, err := resolver.Resolve(context.Background(), "/Music/new.mp3")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if link == "" {
			t.Error("expected a created link")
		}
		if source != SourceCreated {
			t.Errorf("expected SourceCreated, got %s", source)
		}
		if provider.ListCalls != 1 || provider.CreateCalls != 1 {
			t.Errorf("expected one list and one create call, got %d/%d", provider.ListCalls, provider.CreateCalls)
		}
	})

	t.Run("List failure wraps ErrLinkUnavailable", func(t *testing.T) {
		provider := &th.MockProvider{ListErr: errors.New("boom")}
		resolver := NewResolver(provider)

		_, source, err := resolver.Resolve(context.Background(), "/Music/song.mp3")
		if !errors.Is(err, shared.ErrLinkUnavailable) {
			t.Errorf("expected ErrLinkUnavailable, got %v", err)
		}
		if source != SourceNone {
			t.Errorf("expected SourceNone, got %s", source)
		}
	})

	t.Run("Create failure wraps ErrLinkUnavailable", func(t *testing.T) {
		provider := &th.MockProvider{CreateErr: errors.New("boom")}
		resolver := NewResolver(provider)

		_, _, err := resolver.Resolve(context.Background(), "/Music/song.mp3")
		if !errors.Is(err, shared.ErrLinkUnavailable) {
			t.Errorf("expected ErrLinkUnavailable, got %v", err)
		}
	})
}
