package models

// LidarrArtist is an entry of GET api/v1/artist.
type LidarrArtist struct {
	ID              int64                  `json:"id"`
	ArtistName      string                 `json:"artistName"`
	ForeignArtistID *string                `json:"foreignArtistId"`
	Statistics      LidarrArtistStatistics `json:"statistics"`
}

// LidarrArtistStatistics is the subset of artist statistics used to skip artists without files.
type LidarrArtistStatistics struct {
	TrackFileCount int64 `json:"trackFileCount"`
}

// HasFiles reports whether Lidarr holds at least one file for the artist.
func (a LidarrArtist) HasFiles() bool {
	return a.Statistics.TrackFileCount > 0
}

// LidarrAlbum is an entry of GET api/v1/album.
type LidarrAlbum struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	ForeignAlbumID *string `json:"foreignAlbumId"`
	ArtistID       int64   `json:"artistId"`
	Duration       int64   `json:"duration"`
	ReleaseDate    *string `json:"releaseDate"`
}

// LidarrTrack is an entry of GET api/v1/track.
type LidarrTrack struct {
	ID                  int64   `json:"id"`
	ArtistID            int64   `json:"artistId"`
	ForeignTrackID      *string `json:"foreignTrackId"`
	TrackFileID         int64   `json:"trackFileId"`
	AlbumID             int64   `json:"albumId"`
	AbsoluteTrackNumber int     `json:"absoluteTrackNumber"`
	Duration            int64   `json:"duration"`
	Title               string  `json:"title"`
}

// LidarrTrackFile is an entry of GET api/v1/trackfile.
type LidarrTrackFile struct {
	ID       int64  `json:"id"`
	ArtistID int64  `json:"artistId"`
	AlbumID  int64  `json:"albumId"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// LidarrAlbumQuery filters album listings. Zero values are omitted from the request.
type LidarrAlbumQuery struct {
	ArtistID int64
	AlbumIDs []int64
}

// LidarrTrackQuery filters track listings.
type LidarrTrackQuery struct {
	ArtistID int64
	AlbumID  int64
}

// LidarrTrackFileQuery filters track file listings.
type LidarrTrackFileQuery struct {
	ArtistID int64
	AlbumID  int64
}

// AudioDBArtist is the artist lookup record of TheAudioDB.
type AudioDBArtist struct {
	Thumb     *string `json:"strArtistThumb"`
	Biography *string `json:"strBiographyEN"`
}

// AudioDBAlbum is the album lookup record of TheAudioDB.
type AudioDBAlbum struct {
	Thumb       *string `json:"strAlbumThumb"`
	Description *string `json:"strDescriptionEN"`
}

// ProviderFile is a lyrics candidate as returned by a provider search.
type ProviderFile struct {
	Identifier string  `json:"identifier"`
	TrackName  string  `json:"trackName"`
	ArtistName string  `json:"artistName"`
	AlbumTitle string  `json:"albumTitle"`
	Synced     bool    `json:"synced"`
	DurationMs *int64  `json:"durationMs,omitempty"`
	Content    *string `json:"content,omitempty"`
}

// ProviderResult is a scored candidate. It only lives for the duration of one search.
type ProviderResult struct {
	Provider string       `json:"provider"`
	File     ProviderFile `json:"file"`
	Score    float64      `json:"score"`
}
