// TheAudioDB lookup client
package services

import (
	"context"
	"net/url"

	"github.com/desertthunder/singarr/internal/models"
)

const defaultAudioDBBaseURL = "https://www.theaudiodb.com/api/v1/json/123/"

type audioDBArtistResponse struct {
	Artists []models.AudioDBArtist `json:"artists"`
}

type audioDBAlbumResponse struct {
	Album []models.AudioDBAlbum `json:"album"`
}

// AudioDBService looks up artwork and descriptions by MusicBrainz id.
type AudioDBService struct {
	api *APIClient
}

// NewAudioDBService creates a client for baseURL, or the public endpoint when empty.
func NewAudioDBService(baseURL string) *AudioDBService {
	if baseURL == "" {
		baseURL = defaultAudioDBBaseURL
	}
	return &AudioDBService{api: NewAPIClient(APIOptions{Name: "TheAudioDB", BaseURL: baseURL, RateLimit: 2})}
}

// Name returns the service name.
func (a *AudioDBService) Name() string { return "TheAudioDB" }

// Ping looks up a well known artist.
func (a *AudioDBService) Ping(ctx context.Context) error {
	_, err := a.LookupArtist(ctx, "a74b1b7f-71a5-4011-9441-d0b5e4122711")
	return err
}

// LookupArtist returns the first artist record for mbid, or nil when there is none.
func (a *AudioDBService) LookupArtist(ctx context.Context, mbid string) (*models.AudioDBArtist, error) {
	var resp audioDBArtistResponse
	if err := a.api.GetJSON(ctx, "artist-mb.php", url.Values{"i": {mbid}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Artists) == 0 {
		return nil, nil
	}
	return &resp.Artists[0], nil
}

// LookupAlbum returns the first album record for mbid, or nil when there is none.
func (a *AudioDBService) LookupAlbum(ctx context.Context, mbid string) (*models.AudioDBAlbum, error) {
	var resp audioDBAlbumResponse
	if err := a.api.GetJSON(ctx, "album-mb.php", url.Values{"i": {mbid}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Album) == 0 {
		return nil, nil
	}
	return &resp.Album[0], nil
}
