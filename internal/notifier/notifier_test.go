package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

type staticStore struct {
	notifiers []models.Notifier
	err       error
}

func (s staticStore) List(context.Context) ([]models.Notifier, error) {
	return s.notifiers, s.err
}

// countingSink records calls per webhook and fails for the configured url.
type countingSink struct {
	mu     sync.Mutex
	calls  map[string]int
	failOn string
}

func (c *countingSink) Notify(_ context.Context, params models.NotifierParams, _ models.Event) error {
	url := params.(models.DiscordParams).WebhookURL
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[url]++
	if url == c.failOn {
		return errors.New("rejected")
	}
	return nil
}

func discord(id int64, url string) models.Notifier {
	return models.Notifier{ID: id, Params: models.DiscordParams{WebhookURL: url}}
}

func strPtr(s string) *string { return &s }

func TestService(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("failing sink does not affect others", func(t *testing.T) {
		sink := &countingSink{failOn: "bad"}
		svc := NewService(
			staticStore{notifiers: []models.Notifier{discord(1, "bad"), discord(2, "good")}},
			map[models.NotifierType]Sink{models.NotifierDiscord: sink},
			logger,
		)

		svc.Dispatch(context.Background(), models.JobLog{JobID: 1, Log: "hi"})

		if sink.calls["bad"] != 1 || sink.calls["good"] != 1 {
			t.Errorf("expected one call each, got %v", sink.calls)
		}
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		sink := &countingSink{}
		svc := NewService(staticStore{err: errors.New("locked")}, map[models.NotifierType]Sink{models.NotifierDiscord: sink}, logger)

		svc.Dispatch(context.Background(), models.JobLog{})
		if len(sink.calls) != 0 {
			t.Errorf("expected no calls, got %v", sink.calls)
		}
	})

	t.Run("Run consumes subscription", func(t *testing.T) {
		sink := &countingSink{}
		svc := NewService(staticStore{notifiers: []models.Notifier{discord(1, "a")}}, map[models.NotifierType]Sink{models.NotifierDiscord: sink}, logger)

		bus := events.NewBus()
		sub := bus.Subscribe()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error)
		go func() { done <- svc.Run(ctx, sub) }()

		bus.Send(models.JobLog{JobID: 1})
		bus.Send(models.JobLog{JobID: 2})

		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			sink.mu.Lock()
			n := sink.calls["a"]
			sink.mu.Unlock()
			if n == 2 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}

		cancel()
		if err := <-done; err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		if sink.calls["a"] != 2 {
			t.Errorf("expected 2 calls, got %d", sink.calls["a"])
		}
	})
}

type dirResolver string

func (d dirResolver) Path(rel string) string { return filepath.Join(string(d), rel) }

func lyricsDetail() models.LyricsDetail {
	return models.LyricsDetail{
		Lyrics: models.Lyrics{FilePath: "Björk/Homogenic/01 Hunter.lrc", Synced: true},
		Track:  models.Track{Title: "Hunter"},
		Album:  models.Album{Title: "Homogenic", CoverPath: strPtr("albums/mb-2.jpg")},
		Artist: models.Artist{Name: "Björk", ImagePath: strPtr("artists/missing.jpg")},
	}
}

func TestDiscord(t *testing.T) {
	ctx := context.Background()

	images := t.TempDir()
	if err := os.MkdirAll(filepath.Join(images, "albums"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(images, "albums", "mb-2.jpg"), []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("lyricsCreated posts multipart embed", func(t *testing.T) {
		var (
			message discordMessage
			file    string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("expected multipart body: %v", err)
				return
			}
			if err := json.Unmarshal([]byte(r.FormValue("payload_json")), &message); err != nil {
				t.Errorf("bad payload_json: %v", err)
			}
			if f, _, err := r.FormFile("files[0]"); err == nil {
				data, _ := io.ReadAll(f)
				file = string(data)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		sink := NewDiscord(dirResolver(images))
		err := sink.Notify(ctx, models.DiscordParams{WebhookURL: server.URL}, models.LyricsCreated{Lyrics: lyricsDetail()})
		if err != nil {
			t.Fatalf("notify failed: %v", err)
		}

		if len(message.Embeds) != 1 {
			t.Fatalf("expected 1 embed, got %d", len(message.Embeds))
		}
		embed := message.Embeds[0]
		if embed.Title != "Lyrics file imported" || embed.Color != 0x00ff00 {
			t.Errorf("unexpected title/color: %s %x", embed.Title, embed.Color)
		}
		if embed.Author == nil || embed.Author.Name != "Singarr" {
			t.Errorf("expected author Singarr, got %+v", embed.Author)
		}

		fields := map[string]string{}
		for _, f := range embed.Fields {
			fields[f.Name] = f.Value
		}
		expected := map[string]string{
			"Artist":   "Björk",
			"Album":    "Homogenic",
			"Track":    "Hunter",
			"Synced":   "Yes",
			"Provider": "Manual",
			"File":     "`Björk/Homogenic/01 Hunter.lrc`",
		}
		for name, value := range expected {
			if fields[name] != value {
				t.Errorf("field %s: expected %q, got %q", name, value, fields[name])
			}
		}

		if embed.Image == nil || embed.Image.URL != "attachment://mb-2.jpg" {
			t.Errorf("expected cover attachment, got %+v", embed.Image)
		}
		if embed.Thumbnail != nil {
			t.Errorf("expected missing artist image to be dropped, got %+v", embed.Thumbnail)
		}
		if len(message.Attachments) != 1 || file != "jpeg" {
			t.Errorf("expected one attached cover, got %+v %q", message.Attachments, file)
		}
	})

	t.Run("lyricsDeleted is red", func(t *testing.T) {
		var message discordMessage
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseMultipartForm(1 << 20)
			json.Unmarshal([]byte(r.FormValue("payload_json")), &message)
		}))
		defer server.Close()

		if err := NewDiscord(dirResolver(images)).Notify(ctx, models.DiscordParams{WebhookURL: server.URL}, models.LyricsDeleted{Lyrics: lyricsDetail()}); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
		if len(message.Embeds) != 1 || message.Embeds[0].Color != 0xff0000 || message.Embeds[0].Title != "Lyrics file removed" {
			t.Errorf("unexpected message: %+v", message)
		}
	})

	t.Run("other events are ignored", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
		defer server.Close()

		if err := NewDiscord(dirResolver(images)).Notify(ctx, models.DiscordParams{WebhookURL: server.URL}, models.TrackCreated{}); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
		if called {
			t.Error("expected no request")
		}
	})

	t.Run("non-2xx is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad webhook", http.StatusNotFound)
		}))
		defer server.Close()

		err := NewDiscord(dirResolver(images)).Notify(ctx, models.DiscordParams{WebhookURL: server.URL}, models.LyricsCreated{Lyrics: lyricsDetail()})
		if !errors.Is(err, shared.ErrWebhookRejected) {
			t.Errorf("expected ErrWebhookRejected, got %v", err)
		}
	})
}
