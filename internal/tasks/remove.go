package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/singarr/internal/models"
)

// removeTrack deletes the lyrics files and rows of a track, then the track.
func (e *Engine) removeTrack(ctx context.Context, _ Context, trackID int64) error {
	all, err := e.lyrics.List(ctx, models.LyricsFilter{TrackID: &trackID})
	if err != nil {
		return err
	}

	root := e.root()
	for _, lyrics := range all {
		if err := e.lyrics.Remove(ctx, lyrics.ID); err != nil {
			return err
		}
		err := os.Remove(filepath.Join(root, filepath.FromSlash(lyrics.FilePath)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove lyrics file: %w", err)
		}
	}

	return e.tracks.Remove(ctx, trackID)
}

// removeAlbum removes every track of the album, its cover, then the album.
func (e *Engine) removeAlbum(ctx context.Context, c Context, albumID int64) error {
	album, err := e.albums.Find(ctx, albumID)
	if err != nil {
		return err
	}

	tracks, err := e.tracks.List(ctx, models.TrackFilter{AlbumID: &albumID})
	if err != nil {
		return err
	}
	for _, track := range tracks {
		if err := e.removeTrack(ctx, c, track.ID); err != nil {
			return err
		}
	}

	if album.CoverPath != nil {
		if err := e.images.Remove(*album.CoverPath); err != nil {
			e.logger.Warn("failed to remove album cover", "job", c.JobID, "album", album.ID, "error", err)
		}
	}

	return e.albums.Remove(ctx, albumID)
}

// removeArtist removes every album of the artist, its image, then the artist.
func (e *Engine) removeArtist(ctx context.Context, c Context, artistID int64) error {
	artist, err := e.artists.Find(ctx, artistID)
	if err != nil {
		return err
	}

	albums, err := e.albums.List(ctx, models.AlbumFilter{ArtistID: &artistID})
	if err != nil {
		return err
	}
	for _, album := range albums {
		if err := e.removeAlbum(ctx, c, album.ID); err != nil {
			return err
		}
	}

	if artist.ImagePath != nil {
		if err := e.images.Remove(*artist.ImagePath); err != nil {
			e.logger.Warn("failed to remove artist image", "job", c.JobID, "artist", artist.ID, "error", err)
		}
	}

	return e.artists.Remove(ctx, artistID)
}
