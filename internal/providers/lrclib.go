package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/services"
	"github.com/desertthunder/singarr/internal/shared"
)

const defaultLrcLibBaseURL = "https://lrclib.net/"

// lrcLibLyrics is a record of the LrcLib search and get endpoints.
type lrcLibLyrics struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  *string `json:"plainLyrics"`
	SyncedLyrics *string `json:"syncedLyrics"`
}

func (l lrcLibLyrics) content() string {
	if l.SyncedLyrics != nil {
		return *l.SyncedLyrics
	}
	if l.PlainLyrics != nil {
		return *l.PlainLyrics
	}
	return ""
}

// LrcLib searches https://lrclib.net.
type LrcLib struct {
	api *services.APIClient
}

// NewLrcLib creates a provider for baseURL, or the public instance when empty.
func NewLrcLib(baseURL string) *LrcLib {
	if baseURL == "" {
		baseURL = defaultLrcLibBaseURL
	}
	return &LrcLib{api: services.NewAPIClient(services.APIOptions{Name: "LrcLib", BaseURL: baseURL, RateLimit: 5})}
}

// Name returns the provider name stored on imported lyrics.
func (l *LrcLib) Name() string { return "LrcLib" }

// Ping checks that LrcLib answers.
func (l *LrcLib) Ping(ctx context.Context) error {
	var results []lrcLibLyrics
	return l.api.GetJSON(ctx, "api/search", url.Values{"q": {"ping"}}, &results)
}

// Search looks lyrics up by track, artist and album name.
func (l *LrcLib) Search(ctx context.Context, track models.Track) ([]models.ProviderFile, error) {
	query := url.Values{
		"track_name":  {track.Title},
		"artist_name": {track.ArtistName},
		"album_name":  {track.AlbumTitle},
	}

	var results []lrcLibLyrics
	if err := l.api.GetJSON(ctx, "api/search", query, &results); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrProviderRequest, err)
	}

	files := make([]models.ProviderFile, 0, len(results))
	for _, r := range results {
		durationMs := int64(r.Duration * 1000)
		files = append(files, models.ProviderFile{
			Identifier: strconv.FormatInt(r.ID, 10),
			TrackName:  r.TrackName,
			ArtistName: r.ArtistName,
			AlbumTitle: r.AlbumName,
			Synced:     r.SyncedLyrics != nil,
			DurationMs: &durationMs,
		})
	}
	return files, nil
}

// Download fetches the lyrics of file, synced when available.
func (l *LrcLib) Download(ctx context.Context, file models.ProviderFile) (string, error) {
	id, err := strconv.ParseInt(file.Identifier, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: lrclib id %q", shared.ErrInvalidArgument, file.Identifier)
	}

	var lyrics lrcLibLyrics
	if err := l.api.GetJSON(ctx, "api/get/"+strconv.FormatInt(id, 10), nil, &lyrics); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrProviderRequest, err)
	}
	return lyrics.content(), nil
}
