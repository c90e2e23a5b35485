package tasks

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/providers"
)

// searchConcurrency bounds the tracks of one album searched at the same time.
const searchConcurrency = 4

func (e *Engine) searchLibrary(ctx context.Context, c Context) error {
	artists, err := e.artists.List(ctx)
	if err != nil {
		return err
	}
	for i, artist := range artists {
		c.Log(searchingArtistUpdate(i+1, len(artists), artist.Name))
		if err := e.searchArtist(ctx, c, artist.ID); err != nil {
			return err
		}
	}
	return nil
}

// searchArtist searches every album of the artist that is missing lyrics.
func (e *Engine) searchArtist(ctx context.Context, c Context, artistID int64) error {
	albums, err := e.albums.List(ctx, models.AlbumFilter{ArtistID: &artistID})
	if err != nil {
		return err
	}
	for _, album := range albums {
		if !album.MissingLyrics() {
			continue
		}
		if err := e.searchAlbum(ctx, c, album.ID); err != nil {
			return err
		}
	}
	return nil
}

// searchAlbum searches the tracks of an album that have no lyrics. The first failure fails the album.
func (e *Engine) searchAlbum(ctx context.Context, c Context, albumID int64) error {
	noLyrics := false
	tracks, err := e.tracks.List(ctx, models.TrackFilter{AlbumID: &albumID, HasLyrics: &noLyrics})
	if err != nil {
		return err
	}

	total := len(tracks)
	c.Log(searchingTracksUpdate(0, total))

	var done atomic.Int64
	p := pool.New().WithMaxGoroutines(searchConcurrency).WithErrors().WithFirstError().WithContext(ctx)
	for _, track := range tracks {
		p.Go(func(ctx context.Context) error {
			if err := e.searchTrack(ctx, c, track.ID); err != nil {
				return err
			}
			c.Log(searchingTracksUpdate(int(done.Add(1)), total))
			return nil
		})
	}
	return p.Wait()
}

// searchTrack imports the best provider candidate for a track, if any qualifies.
func (e *Engine) searchTrack(ctx context.Context, c Context, trackID int64) error {
	track, err := e.tracks.Find(ctx, trackID)
	if err != nil {
		return err
	}

	results, err := e.providers.GetResults(ctx, track)
	if err != nil {
		return err
	}

	best := providers.Select(results, e.settings.Get().Search.MinScore)
	if best == nil {
		c.Log(noCandidateUpdate(track.Title, len(results)))
		return nil
	}

	content, err := e.providers.Download(ctx, *best)
	if err != nil {
		return err
	}
	// instrumental records carry neither synced nor plain lyrics
	if strings.TrimSpace(content) == "" {
		c.Log(emptyContentUpdate(track.Title, best.Provider))
		return nil
	}

	provider := best.Provider
	err = e.importLyrics(ctx, c, models.ImportLyrics{
		TrackID:  track.ID,
		Content:  content,
		Synced:   best.File.Synced,
		Provider: &provider,
	})
	if err != nil {
		return err
	}

	c.Log(importedUpdate(track.Title, provider, best.Score, best.File.Synced))
	return nil
}
