package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func lidarrFor(t *testing.T, server *httptest.Server, apiKey string) *LidarrService {
	t.Helper()
	cfg := shared.DefaultConfig()
	cfg.Lidarr.BaseURL = server.URL + "/"
	cfg.Lidarr.APIKey = apiKey
	return NewLidarrService(shared.NewSettings(cfg, ""))
}

func TestURL(t *testing.T) {
	tests := []struct {
		base, path, expected string
	}{
		{"http://localhost:8696/", "api/v1/artist", "http://localhost:8696/api/v1/artist"},
		{"http://localhost:8696", "/api/v1/artist", "http://localhost:8696/api/v1/artist"},
		{"http://a/", "https://b/c.jpg", "https://b/c.jpg"},
	}
	for _, tt := range tests {
		if got := URL(tt.base, tt.path); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}

func TestLidarrService(t *testing.T) {
	ctx := context.Background()

	t.Run("ListArtists sends api key", func(t *testing.T) {
		var gotKey, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-Api-Key")
			gotPath = r.URL.Path
			jsonHandler(`[{"id":1,"artistName":"Björk","foreignArtistId":"mb-1","statistics":{"trackFileCount":12}},
				{"id":2,"artistName":"Empty","statistics":{"trackFileCount":0}}]`)(w, r)
		}))
		defer server.Close()

		artists, err := lidarrFor(t, server, "secret").ListArtists(ctx)
		if err != nil {
			t.Fatalf("list artists failed: %v", err)
		}
		if gotKey != "secret" {
			t.Errorf("expected api key secret, got %q", gotKey)
		}
		if gotPath != "/api/v1/artist" {
			t.Errorf("expected /api/v1/artist, got %s", gotPath)
		}
		if len(artists) != 2 || !artists[0].HasFiles() || artists[1].HasFiles() {
			t.Errorf("unexpected artists: %+v", artists)
		}
	})

	t.Run("ListAlbums repeats albumIds", func(t *testing.T) {
		var gotIDs []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotIDs = r.URL.Query()["albumIds"]
			jsonHandler(`[{"id":5,"title":"Homogenic","artistId":1}]`)(w, r)
		}))
		defer server.Close()

		albums, err := lidarrFor(t, server, "").ListAlbums(ctx, models.LidarrAlbumQuery{AlbumIDs: []int64{5, 6}})
		if err != nil {
			t.Fatalf("list albums failed: %v", err)
		}
		if strings.Join(gotIDs, ",") != "5,6" {
			t.Errorf("expected albumIds 5,6, got %v", gotIDs)
		}
		if len(albums) != 1 || albums[0].Title != "Homogenic" {
			t.Errorf("unexpected albums: %+v", albums)
		}
	})

	t.Run("ListTrackFiles filters by album", func(t *testing.T) {
		var gotAlbum string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAlbum = r.URL.Query().Get("albumId")
			jsonHandler(`[{"id":9,"albumId":5,"artistId":1,"path":"/music/a.flac"}]`)(w, r)
		}))
		defer server.Close()

		files, err := lidarrFor(t, server, "").ListTrackFiles(ctx, models.LidarrTrackFileQuery{AlbumID: 5})
		if err != nil {
			t.Fatalf("list track files failed: %v", err)
		}
		if gotAlbum != "5" {
			t.Errorf("expected albumId 5, got %q", gotAlbum)
		}
		if len(files) != 1 || files[0].Path != "/music/a.flac" {
			t.Errorf("unexpected files: %+v", files)
		}
	})

	t.Run("non-2xx is an API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := lidarrFor(t, server, "wrong").ListTracks(ctx, models.LidarrTrackQuery{AlbumID: 1})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "401") {
			t.Errorf("expected status code in error, got %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		lidarr := lidarrFor(t, server, "")
		server.Close()

		if err := lidarr.Ping(ctx); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestAudioDBService(t *testing.T) {
	ctx := context.Background()

	t.Run("LookupArtist", func(t *testing.T) {
		var gotID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/artist-mb.php" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			gotID = r.URL.Query().Get("i")
			jsonHandler(`{"artists":[{"strArtistThumb":"https://img/a.jpg","strBiographyEN":"Icelandic singer"}]}`)(w, r)
		}))
		defer server.Close()

		artist, err := NewAudioDBService(server.URL+"/").LookupArtist(ctx, "mb-1")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if gotID != "mb-1" {
			t.Errorf("expected i=mb-1, got %s", gotID)
		}
		if artist == nil || artist.Thumb == nil || *artist.Biography != "Icelandic singer" {
			t.Errorf("unexpected artist: %+v", artist)
		}
	})

	t.Run("LookupAlbum empty", func(t *testing.T) {
		server := httptest.NewServer(jsonHandler(`{"album":null}`))
		defer server.Close()

		album, err := NewAudioDBService(server.URL+"/").LookupAlbum(ctx, "mb-2")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if album != nil {
			t.Errorf("expected nil album, got %+v", album)
		}
	})
}

func TestImageService(t *testing.T) {
	ctx := context.Background()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	}))
	defer server.Close()

	root := t.TempDir()
	images := NewImageService(root)

	rel, err := images.Download(ctx, server.URL+"/cover", "albums/mb-2")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if rel != "albums/mb-2.png" {
		t.Errorf("expected albums/mb-2.png, got %s", rel)
	}

	data, err := os.ReadFile(filepath.Join(root, "albums", "mb-2.png"))
	if err != nil {
		t.Fatalf("expected image on disk: %v", err)
	}
	if string(data) != string(png) {
		t.Error("stored image differs from download")
	}

	if err := images.Remove(rel); err != nil {
		t.Errorf("remove failed: %v", err)
	}
	if err := images.Remove(rel); err == nil {
		t.Error("expected error removing a missing image")
	}
}

func TestCheckAll(t *testing.T) {
	up := httptest.NewServer(jsonHandler(`{"version":"2.0"}`))
	defer up.Close()

	statuses := CheckAll(context.Background(), lidarrFor(t, up, ""))
	if len(statuses) != 1 || !statuses[0].OK || statuses[0].Name != "Lidarr" {
		t.Errorf("unexpected statuses: %+v", statuses)
	}
}
