package tasks

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/desertthunder/singarr/internal/models"
)

// syncLibrary mirrors every Lidarr artist that has files, then removes local artists Lidarr no longer reports.
func (e *Engine) syncLibrary(ctx context.Context, c Context) error {
	all, err := e.lidarr.ListArtists(ctx)
	if err != nil {
		return err
	}

	artists := make([]models.LidarrArtist, 0, len(all))
	for _, a := range all {
		if a.HasFiles() {
			artists = append(artists, a)
		}
	}

	accepted := make([]int64, 0, len(artists))
	for i, record := range artists {
		c.Log(syncingArtistUpdate(i+1, len(artists), record.ArtistName))

		id, err := e.artists.UpsertLidarr(ctx, record)
		if err != nil {
			return err
		}
		accepted = append(accepted, id)

		if err := e.syncArtist(ctx, c, id); err != nil {
			return err
		}
	}

	stale, err := e.artists.FindExcluding(ctx, accepted)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		c.Log(removingArtistsUpdate)
	}
	for _, id := range stale {
		if err := e.removeArtist(ctx, c, id); err != nil {
			return err
		}
	}
	return nil
}

// syncArtist mirrors the albums of an artist that have at least one track file.
func (e *Engine) syncArtist(ctx context.Context, c Context, artistID int64) error {
	artist, err := e.artists.Find(ctx, artistID)
	if err != nil {
		return err
	}
	if artist.LidarrID == nil {
		return nil
	}

	files, err := e.lidarr.ListTrackFiles(ctx, models.LidarrTrackFileQuery{ArtistID: *artist.LidarrID})
	if err != nil {
		return err
	}

	accepted := []int64{}
	if albumIDs := distinctAlbumIDs(files); len(albumIDs) > 0 {
		albums, err := e.lidarr.ListAlbums(ctx, models.LidarrAlbumQuery{AlbumIDs: albumIDs})
		if err != nil {
			return err
		}

		for i, record := range albums {
			c.Log(syncingAlbumUpdate(i+1, len(albums), record.Title))

			id, err := e.albums.UpsertLidarr(ctx, record)
			if err != nil {
				return err
			}
			accepted = append(accepted, id)

			if err := e.syncAlbum(ctx, c, id); err != nil {
				return err
			}
		}
	}

	stale, err := e.albums.FindExcluding(ctx, artist.ID, accepted)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		c.Log(removingAlbumsUpdate)
	}
	for _, id := range stale {
		if err := e.removeAlbum(ctx, c, id); err != nil {
			return err
		}
	}

	if artist.NeedsMetadata() {
		return e.syncArtistMetadata(ctx, c, artist.ID, false)
	}
	return nil
}

// syncAlbum mirrors the tracks of an album that are backed by a file.
func (e *Engine) syncAlbum(ctx context.Context, c Context, albumID int64) error {
	album, err := e.albums.Find(ctx, albumID)
	if err != nil {
		return err
	}
	if album.LidarrID == nil {
		return nil
	}

	var (
		files  []models.LidarrTrackFile
		tracks []models.LidarrTrack
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		files, err = e.lidarr.ListTrackFiles(ctx, models.LidarrTrackFileQuery{AlbumID: *album.LidarrID})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		tracks, err = e.lidarr.ListTracks(ctx, models.LidarrTrackQuery{AlbumID: *album.LidarrID})
		return err
	})
	if err := p.Wait(); err != nil {
		return fmt.Errorf("failed to fetch tracks of album %d: %w", album.ID, err)
	}

	byID := make(map[int64]models.LidarrTrackFile, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	accepted := []int64{}
	for _, track := range tracks {
		file, ok := byID[track.TrackFileID]
		if !ok {
			continue
		}
		id, err := e.tracks.UpsertLidarr(ctx, track, file)
		if err != nil {
			return err
		}
		accepted = append(accepted, id)
	}

	stale, err := e.tracks.FindExcluding(ctx, album.ID, accepted)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		c.Log(removingTracksUpdate)
	}
	for _, id := range stale {
		if err := e.removeTrack(ctx, c, id); err != nil {
			return err
		}
	}

	if album.MetadataUpdatedAt == nil {
		return e.syncAlbumMetadata(ctx, c, album.ID, false)
	}
	return nil
}

// distinctAlbumIDs returns the Lidarr album ids of files in first-seen order.
func distinctAlbumIDs(files []models.LidarrTrackFile) []int64 {
	seen := make(map[int64]bool, len(files))
	ids := []int64{}
	for _, f := range files {
		if !seen[f.AlbumID] {
			seen[f.AlbumID] = true
			ids = append(ids, f.AlbumID)
		}
	}
	return ids
}
