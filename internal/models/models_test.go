package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/singarr/internal/shared"
)

func TestPayloadJSON(t *testing.T) {
	t.Run("encodes type discriminant", func(t *testing.T) {
		tests := []struct {
			name     string
			payload  Payload
			expected string
		}{
			{name: "unit payload", payload: SyncLibrary{}, expected: `{"type":"syncLibrary"}`},
			{name: "id payload", payload: SyncArtist{ArtistID: 3}, expected: `{"type":"syncArtist","artistId":3}`},
			{name: "force flag", payload: SyncAlbumMetadata{AlbumID: 9, Force: true}, expected: `{"type":"syncAlbumMetadata","albumId":9,"force":true}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				data, err := MarshalPayload(tt.payload)
				if err != nil {
					t.Fatalf("marshal failed: %v", err)
				}
				if string(data) != tt.expected {
					t.Errorf("expected %s, got %s", tt.expected, data)
				}
			})
		}
	})

	t.Run("decodes to value types", func(t *testing.T) {
		p, err := UnmarshalPayload([]byte(`{"type":"importLyrics","trackId":7,"content":"[00:00:01] hi","synced":true,"provider":"LrcLib"}`))
		if err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		imp, ok := p.(ImportLyrics)
		if !ok {
			t.Fatalf("expected ImportLyrics, got %T", p)
		}
		if imp.TrackID != 7 || !imp.Synced || imp.Provider == nil || *imp.Provider != "LrcLib" {
			t.Errorf("unexpected payload %+v", imp)
		}
	})

	t.Run("every type decodes from its own encoding", func(t *testing.T) {
		for _, typ := range PayloadTypes {
			target, err := NewPayload(typ)
			if err != nil {
				t.Fatalf("NewPayload(%s): %v", typ, err)
			}
			p := derefPayload(target)
			if p == nil {
				t.Fatalf("derefPayload(%s) returned nil", typ)
			}
			if p.Type() != typ {
				t.Errorf("expected type %s, got %s", typ, p.Type())
			}
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := UnmarshalPayload([]byte(`{"type":"reticulateSplines"}`))
		if !errors.Is(err, shared.ErrUnknownPayload) {
			t.Errorf("expected ErrUnknownPayload, got %v", err)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := UnmarshalPayload([]byte(`{"albumId":1}`))
		if !errors.Is(err, shared.ErrInvalidPayload) {
			t.Errorf("expected ErrInvalidPayload, got %v", err)
		}
	})
}

func TestBuildPayload(t *testing.T) {
	p, err := BuildPayload(TypeSyncArtistMetadata, 4, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (SyncArtistMetadata{ArtistID: 4, Force: true}) {
		t.Errorf("unexpected payload %+v", p)
	}

	if _, err := BuildPayload(TypeImportLyrics, 1, false); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for importLyrics, got %v", err)
	}

	if _, err := BuildPayload("nope", 1, false); !errors.Is(err, shared.ErrUnknownPayload) {
		t.Errorf("expected ErrUnknownPayload, got %v", err)
	}
}

func TestJobJSON(t *testing.T) {
	msg := "boom"
	job := Job{ID: 12, Payload: ScanAlbum{AlbumID: 2}, Status: JobFailed, Error: &msg}

	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"payload":{"type":"scanAlbum","albumId":2}`) {
		t.Errorf("expected tagged payload in %s", data)
	}

	var decoded Job
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Payload != job.Payload || decoded.Status != JobFailed || *decoded.Error != "boom" {
		t.Errorf("unexpected job %+v", decoded)
	}
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		input    string
		terminal bool
		wantErr  bool
	}{
		{input: "pending"},
		{input: "running"},
		{input: "done", terminal: true},
		{input: "failed", terminal: true},
		{input: "paused", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseJobStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status.Terminal() != tt.terminal {
				t.Errorf("expected terminal=%v for %s", tt.terminal, status)
			}
		})
	}
}

func TestEventJSON(t *testing.T) {
	t.Run("job log", func(t *testing.T) {
		data, err := MarshalEvent(JobLog{JobID: 5, Log: "[1/2] Syncing artist: Björk"})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		expected := `{"type":"jobLog","jobId":5,"log":"[1/2] Syncing artist: Björk"}`
		if string(data) != expected {
			t.Errorf("expected %s, got %s", expected, data)
		}
	})

	t.Run("lyrics created round trip", func(t *testing.T) {
		provider := "LrcLib"
		event := LyricsCreated{Lyrics: LyricsDetail{
			Lyrics: Lyrics{ID: 1, TrackID: 2, FilePath: "A/B/01.lrc", Synced: true, Provider: &provider},
			Track:  Track{ID: 2, Title: "Joga"},
			Album:  Album{ID: 3, Title: "Homogenic"},
			Artist: Artist{ID: 4, Name: "Björk"},
		}}

		data, err := MarshalEvent(event)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		decoded, err := UnmarshalEvent(data)
		if err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		got, ok := decoded.(LyricsCreated)
		if !ok {
			t.Fatalf("expected LyricsCreated, got %T", decoded)
		}
		if got.Lyrics.FilePath != "A/B/01.lrc" || got.Lyrics.Artist.Name != "Björk" {
			t.Errorf("unexpected event %+v", got)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := UnmarshalEvent([]byte(`{"type":"nope"}`)); !errors.Is(err, shared.ErrUnknownEvent) {
			t.Errorf("expected ErrUnknownEvent, got %v", err)
		}
	})

	t.Run("EventJobID", func(t *testing.T) {
		if id, ok := EventJobID(JobEnd{Job: Job{ID: 9}}); !ok || id != 9 {
			t.Errorf("expected job id 9, got %d (%v)", id, ok)
		}
		if _, ok := EventJobID(ArtistCreated{}); ok {
			t.Error("domain events have no job id")
		}
	})
}

func TestNotifierParams(t *testing.T) {
	data, err := MarshalNotifierParams(DiscordParams{WebhookURL: "https://discord.test/hook"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"type":"discord","webhookUrl":"https://discord.test/hook"}` {
		t.Errorf("unexpected encoding %s", data)
	}

	params, err := UnmarshalNotifierParams(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if params.(DiscordParams).WebhookURL != "https://discord.test/hook" {
		t.Errorf("unexpected params %+v", params)
	}

	if _, err := UnmarshalNotifierParams([]byte(`{"type":"slack"}`)); !errors.Is(err, shared.ErrUnknownNotifier) {
		t.Errorf("expected ErrUnknownNotifier, got %v", err)
	}
}
