// Lidarr v1 API client
package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// LidarrService reads the catalogue from Lidarr.
//
// Base URL, API key and timeout are read from settings on every request, so changes apply without a restart.
type LidarrService struct {
	api      *APIClient
	settings *shared.Settings
}

// NewLidarrService creates a Lidarr client configured by settings.
func NewLidarrService(settings *shared.Settings) *LidarrService {
	cfg := settings.Get().Lidarr
	return &LidarrService{
		api:      NewAPIClient(APIOptions{Name: "Lidarr", BaseURL: cfg.BaseURL, Timeout: cfg.Timeout(), RateLimit: 20}),
		settings: settings,
	}
}

// Name returns the service name.
func (l *LidarrService) Name() string { return "Lidarr" }

// Ping checks that Lidarr answers with the configured key.
func (l *LidarrService) Ping(ctx context.Context) error {
	var status map[string]any
	return l.get(ctx, "api/v1/system/status", nil, &status)
}

// ListArtists returns every artist Lidarr monitors.
func (l *LidarrService) ListArtists(ctx context.Context) ([]models.LidarrArtist, error) {
	artists := []models.LidarrArtist{}
	return artists, l.get(ctx, "api/v1/artist", nil, &artists)
}

// ListAlbums returns the albums matching q.
func (l *LidarrService) ListAlbums(ctx context.Context, q models.LidarrAlbumQuery) ([]models.LidarrAlbum, error) {
	query := url.Values{}
	if q.ArtistID != 0 {
		query.Set("artistId", strconv.FormatInt(q.ArtistID, 10))
	}
	for _, id := range q.AlbumIDs {
		query.Add("albumIds", strconv.FormatInt(id, 10))
	}

	albums := []models.LidarrAlbum{}
	return albums, l.get(ctx, "api/v1/album", query, &albums)
}

// ListTracks returns the tracks matching q.
func (l *LidarrService) ListTracks(ctx context.Context, q models.LidarrTrackQuery) ([]models.LidarrTrack, error) {
	query := url.Values{}
	if q.ArtistID != 0 {
		query.Set("artistId", strconv.FormatInt(q.ArtistID, 10))
	}
	if q.AlbumID != 0 {
		query.Set("albumId", strconv.FormatInt(q.AlbumID, 10))
	}

	tracks := []models.LidarrTrack{}
	return tracks, l.get(ctx, "api/v1/track", query, &tracks)
}

// ListTrackFiles returns the files matching q.
func (l *LidarrService) ListTrackFiles(ctx context.Context, q models.LidarrTrackFileQuery) ([]models.LidarrTrackFile, error) {
	query := url.Values{}
	if q.ArtistID != 0 {
		query.Set("artistId", strconv.FormatInt(q.ArtistID, 10))
	}
	if q.AlbumID != 0 {
		query.Add("albumId", strconv.FormatInt(q.AlbumID, 10))
	}

	files := []models.LidarrTrackFile{}
	return files, l.get(ctx, "api/v1/trackfile", query, &files)
}

func (l *LidarrService) get(ctx context.Context, path string, query url.Values, out any) error {
	cfg := l.settings.Get().Lidarr
	l.api.SetTimeout(cfg.Timeout())

	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["X-Api-Key"] = cfg.APIKey
	}
	return l.api.GetJSONFrom(ctx, cfg.BaseURL, path, query, headers, out)
}
