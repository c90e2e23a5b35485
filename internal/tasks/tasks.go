package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// ArtistStore persists artists. Implemented by repositories.ArtistRepository.
type ArtistStore interface {
	Find(ctx context.Context, id int64) (models.Artist, error)
	List(ctx context.Context) ([]models.Artist, error)
	UpsertLidarr(ctx context.Context, record models.LidarrArtist) (int64, error)
	FindExcluding(ctx context.Context, ids []int64) ([]int64, error)
	SetMetadata(ctx context.Context, id int64, imagePath, description *string) error
	Remove(ctx context.Context, id int64) error
}

// AlbumStore persists albums. Implemented by repositories.AlbumRepository.
type AlbumStore interface {
	Find(ctx context.Context, id int64) (models.Album, error)
	List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, error)
	UpsertLidarr(ctx context.Context, record models.LidarrAlbum) (int64, error)
	FindExcluding(ctx context.Context, artistID int64, ids []int64) ([]int64, error)
	SetMetadata(ctx context.Context, id int64, coverPath, description *string) error
	Remove(ctx context.Context, id int64) error
}

// TrackStore persists tracks. Implemented by repositories.TrackRepository.
type TrackStore interface {
	Find(ctx context.Context, id int64) (models.Track, error)
	List(ctx context.Context, filter models.TrackFilter) ([]models.Track, error)
	UpsertLidarr(ctx context.Context, record models.LidarrTrack, file models.LidarrTrackFile) (int64, error)
	FindExcluding(ctx context.Context, albumID int64, ids []int64) ([]int64, error)
	Remove(ctx context.Context, id int64) error
}

// LyricsStore persists lyrics rows. Implemented by repositories.LyricsRepository.
type LyricsStore interface {
	FindByPath(ctx context.Context, path string) (*models.Lyrics, error)
	List(ctx context.Context, filter models.LyricsFilter) ([]models.Lyrics, error)
	Create(ctx context.Context, data models.CreateLyrics) (models.Lyrics, error)
	Remove(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, albumID int64, keepIDs []int64) (int, error)
}

// Lidarr is the upstream catalogue. Implemented by services.LidarrService.
type Lidarr interface {
	ListArtists(ctx context.Context) ([]models.LidarrArtist, error)
	ListAlbums(ctx context.Context, q models.LidarrAlbumQuery) ([]models.LidarrAlbum, error)
	ListTracks(ctx context.Context, q models.LidarrTrackQuery) ([]models.LidarrTrack, error)
	ListTrackFiles(ctx context.Context, q models.LidarrTrackFileQuery) ([]models.LidarrTrackFile, error)
}

// MetadataSource looks up artwork and descriptions by MusicBrainz id. Implemented by services.AudioDBService.
type MetadataSource interface {
	LookupArtist(ctx context.Context, mbid string) (*models.AudioDBArtist, error)
	LookupAlbum(ctx context.Context, mbid string) (*models.AudioDBAlbum, error)
}

// ImageStore downloads and deletes artwork. Implemented by services.ImageService.
type ImageStore interface {
	Download(ctx context.Context, rawURL, key string) (string, error)
	Remove(rel string) error
}

// ProviderSearch finds lyrics candidates. Implemented by providers.Service.
type ProviderSearch interface {
	GetResults(ctx context.Context, track models.Track) ([]models.ProviderResult, error)
	Download(ctx context.Context, result models.ProviderResult) (string, error)
}

// Deps bundles the collaborators of an [Engine].
type Deps struct {
	Artists   ArtistStore
	Albums    AlbumStore
	Tracks    TrackStore
	Lyrics    LyricsStore
	Lidarr    Lidarr
	Metadata  MetadataSource
	Images    ImageStore
	Providers ProviderSearch
	Events    events.Sender
	Settings  *shared.Settings
	Logger    *log.Logger
}

// Engine executes job payloads.
type Engine struct {
	artists   ArtistStore
	albums    AlbumStore
	tracks    TrackStore
	lyrics    LyricsStore
	lidarr    Lidarr
	metadata  MetadataSource
	images    ImageStore
	providers ProviderSearch
	events    events.Sender
	settings  *shared.Settings
	logger    *log.Logger
}

// NewEngine creates an Engine from deps.
func NewEngine(deps Deps) *Engine {
	return &Engine{
		artists:   deps.Artists,
		albums:    deps.Albums,
		tracks:    deps.Tracks,
		lyrics:    deps.Lyrics,
		lidarr:    deps.Lidarr,
		metadata:  deps.Metadata,
		images:    deps.Images,
		providers: deps.Providers,
		events:    deps.Events,
		settings:  deps.Settings,
		logger:    deps.Logger,
	}
}

// Context identifies the job a handler runs for.
type Context struct {
	JobID  int64
	engine *Engine
}

// Log writes a progress line for the job and publishes it as a jobLog event.
// The line is sent as is; callers format it through the helpers in updates.go.
func (c Context) Log(line string) {
	c.engine.logger.Info(line, "job", c.JobID)
	c.engine.events.Send(models.JobLog{JobID: c.JobID, Log: line})
}

// Run executes the payload of job. It satisfies jobs.Handler.
func (e *Engine) Run(ctx context.Context, job models.Job) error {
	c := Context{JobID: job.ID, engine: e}

	switch p := job.Payload.(type) {
	case models.SyncLibrary:
		return e.syncLibrary(ctx, c)
	case models.SyncArtist:
		return e.syncArtist(ctx, c, p.ArtistID)
	case models.SyncAlbum:
		return e.syncAlbum(ctx, c, p.AlbumID)
	case models.SyncArtistMetadata:
		return e.syncArtistMetadata(ctx, c, p.ArtistID, p.Force)
	case models.SyncAlbumMetadata:
		return e.syncAlbumMetadata(ctx, c, p.AlbumID, p.Force)
	case models.ScanLibrary:
		return e.scanLibrary(ctx, c)
	case models.ScanArtist:
		return e.scanArtist(ctx, c, p.ArtistID)
	case models.ScanAlbum:
		return e.scanAlbum(ctx, c, p.AlbumID)
	case models.ScanTrack:
		return e.scanTrack(ctx, c, p.TrackID)
	case models.CleanAlbum:
		return e.cleanAlbum(ctx, c, p.AlbumID)
	case models.SearchLibrary:
		return e.searchLibrary(ctx, c)
	case models.SearchArtist:
		return e.searchArtist(ctx, c, p.ArtistID)
	case models.SearchAlbum:
		return e.searchAlbum(ctx, c, p.AlbumID)
	case models.SearchTrack:
		return e.searchTrack(ctx, c, p.TrackID)
	case models.ImportLyrics:
		return e.importLyrics(ctx, c, p)
	case models.RemoveArtist:
		return e.removeArtist(ctx, c, p.ArtistID)
	case models.RemoveAlbum:
		return e.removeAlbum(ctx, c, p.AlbumID)
	case models.RemoveTrack:
		return e.removeTrack(ctx, c, p.TrackID)
	case nil:
		return fmt.Errorf("%w: job %d has no payload", shared.ErrUnknownPayload, job.ID)
	default:
		return fmt.Errorf("%w: %q", shared.ErrUnknownPayload, p.Type())
	}
}

// root returns the library root folder from the current settings.
func (e *Engine) root() string {
	return e.settings.Get().Library.RootFolder
}
