package tasks

import (
	"context"
	"path"
)

// syncArtistMetadata fills in the artist image and biography from the metadata source.
//
// An existing image is only replaced when force is set. A failed download keeps the old path.
func (e *Engine) syncArtistMetadata(ctx context.Context, c Context, artistID int64, force bool) error {
	artist, err := e.artists.Find(ctx, artistID)
	if err != nil {
		return err
	}
	if artist.MusicBrainzID == nil {
		return nil
	}

	record, err := e.metadata.LookupArtist(ctx, *artist.MusicBrainzID)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	imagePath := e.refreshImage(ctx, c, artist.ImagePath, record.Thumb, path.Join("artists", *artist.MusicBrainzID), force)
	description := keepText(artist.Description, record.Biography)
	if sameText(imagePath, artist.ImagePath) && sameText(description, artist.Description) {
		return nil
	}
	return e.artists.SetMetadata(ctx, artist.ID, imagePath, description)
}

// syncAlbumMetadata fills in the album cover and description from the metadata source.
func (e *Engine) syncAlbumMetadata(ctx context.Context, c Context, albumID int64, force bool) error {
	album, err := e.albums.Find(ctx, albumID)
	if err != nil {
		return err
	}
	if album.MusicBrainzID == nil {
		return nil
	}

	record, err := e.metadata.LookupAlbum(ctx, *album.MusicBrainzID)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	coverPath := e.refreshImage(ctx, c, album.CoverPath, record.Thumb, path.Join("albums", *album.MusicBrainzID), force)
	description := keepText(album.Description, record.Description)
	if sameText(coverPath, album.CoverPath) && sameText(description, album.Description) {
		return nil
	}
	return e.albums.SetMetadata(ctx, album.ID, coverPath, description)
}

// refreshImage downloads thumb under key when there is no current image or force is set,
// and returns the path to store.
func (e *Engine) refreshImage(ctx context.Context, c Context, current, thumb *string, key string, force bool) *string {
	if thumb == nil || *thumb == "" || (current != nil && !force) {
		return current
	}

	rel, err := e.images.Download(ctx, *thumb, key)
	if err != nil {
		c.Log(downloadFailedUpdate)
		e.logger.Warn("image download failed", "job", c.JobID, "url", *thumb, "error", err)
		return current
	}
	return &rel
}

// keepText prefers a non-empty fetched value and otherwise keeps the stored one.
func keepText(current, fetched *string) *string {
	if fetched == nil || *fetched == "" {
		return current
	}
	return fetched
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
