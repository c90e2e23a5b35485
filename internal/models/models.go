// package models defines the singarr data model
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/singarr/internal/shared"
)

// Repository defines the lookup and removal operations shared by every catalogue store.
type Repository[T any] interface {
	Find(ctx context.Context, id int64) (T, error) // Find retrieves a model by its ID
	Remove(ctx context.Context, id int64) error    // Remove deletes a model by its ID
}

// Artist is a performer mirrored from Lidarr.
type Artist struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	LidarrID          *int64     `json:"lidarrId,omitempty"`
	MusicBrainzID     *string    `json:"musicbrainzId,omitempty"`
	ImagePath         *string    `json:"imagePath,omitempty"`
	Description       *string    `json:"description,omitempty"`
	MetadataUpdatedAt *time.Time `json:"metadataUpdatedAt,omitempty"`
}

// NeedsMetadata reports whether the artist is missing its image or biography.
func (a Artist) NeedsMetadata() bool {
	return a.ImagePath == nil || a.Description == nil
}

// TrackStats counts the tracks of an album and how many of them have lyrics.
type TrackStats struct {
	TracksCount     int `json:"tracksCount"`
	WithLyricsCount int `json:"withLyricsCount"`
	SyncedCount     int `json:"syncedCount"`
}

// Album is a release mirrored from Lidarr.
type Album struct {
	ID                int64      `json:"id"`
	ArtistID          int64      `json:"artistId"`
	Title             string     `json:"title"`
	LidarrID          *int64     `json:"lidarrId,omitempty"`
	MusicBrainzID     *string    `json:"musicbrainzId,omitempty"`
	CoverPath         *string    `json:"coverPath,omitempty"`
	Description       *string    `json:"description,omitempty"`
	ReleaseDate       *string    `json:"releaseDate,omitempty"`
	MetadataUpdatedAt *time.Time `json:"metadataUpdatedAt,omitempty"`
	Stats             TrackStats `json:"stats"`
}

// MissingLyrics reports whether at least one track of the album has no lyrics file.
func (a Album) MissingLyrics() bool {
	return a.Stats.WithLyricsCount < a.Stats.TracksCount
}

// Track is an audio file of an album. ArtistName and AlbumTitle are joined in on read.
type Track struct {
	ID          int64  `json:"id"`
	ArtistID    int64  `json:"artistId"`
	AlbumID     int64  `json:"albumId"`
	LidarrID    *int64 `json:"lidarrId,omitempty"`
	TrackNumber int    `json:"trackNumber"`
	Title       string `json:"title"`
	FilePath    string `json:"filePath"`
	DurationMs  int64  `json:"durationMs"`
	HasLyrics   bool   `json:"hasLyrics"`
	ArtistName  string `json:"artistName"`
	AlbumTitle  string `json:"albumTitle"`
}

// Lyrics is a lyrics file on disk, path relative to the library root.
type Lyrics struct {
	ID        int64     `json:"id"`
	TrackID   int64     `json:"trackId"`
	FilePath  string    `json:"filePath"`
	Synced    bool      `json:"synced"`
	Checksum  string    `json:"checksum"`
	Provider  *string   `json:"provider,omitempty"`
	Language  *string   `json:"language,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LyricsDetail is a lyrics row with the track, album and artist it belongs to.
type LyricsDetail struct {
	Lyrics
	Track  Track  `json:"track"`
	Album  Album  `json:"album"`
	Artist Artist `json:"artist"`
}

// CreateLyrics holds the fields needed to record a new lyrics file.
type CreateLyrics struct {
	TrackID  int64
	FilePath string
	Synced   bool
	Checksum string
	Provider *string
	Language *string
}

// AlbumFilter narrows album listings.
type AlbumFilter struct {
	ArtistID *int64
}

// TrackFilter narrows track listings.
type TrackFilter struct {
	ArtistID  *int64
	AlbumID   *int64
	HasLyrics *bool
}

// LyricsFilter narrows lyrics listings.
type LyricsFilter struct {
	ArtistID *int64
	AlbumID  *int64
	TrackID  *int64
}

// Notifier is a configured event sink.
type Notifier struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Params    NotifierParams `json:"params"`
}

// NotifierType names a sink implementation.
type NotifierType string

const (
	NotifierDiscord NotifierType = "discord"
)

// NotifierParams is the closed union of sink configurations.
type NotifierParams interface {
	Type() NotifierType
	notifierParams()
}

// DiscordParams configures a Discord webhook sink.
type DiscordParams struct {
	WebhookURL string `json:"webhookUrl" validate:"required,url"`
}

func (DiscordParams) Type() NotifierType { return NotifierDiscord }
func (DiscordParams) notifierParams()    {}

// MarshalNotifierParams encodes params with its "type" discriminant.
func MarshalNotifierParams(p NotifierParams) ([]byte, error) {
	return marshalTagged(string(p.Type()), p)
}

// UnmarshalNotifierParams decodes a "type" discriminated notifier configuration.
func UnmarshalNotifierParams(data []byte) (NotifierParams, error) {
	tag, err := readTag(data)
	if err != nil {
		return nil, err
	}

	switch NotifierType(tag) {
	case NotifierDiscord:
		var p DiscordParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownNotifier, tag)
	}
}

// MarshalJSON encodes the notifier with tagged params.
func (n Notifier) MarshalJSON() ([]byte, error) {
	params, err := MarshalNotifierParams(n.Params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID        int64           `json:"id"`
		CreatedAt time.Time       `json:"createdAt"`
		Params    json.RawMessage `json:"params"`
	}{n.ID, n.CreatedAt, params})
}
