package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
)

const albumSelect = `
	SELECT
		al.id, al.artist_id, al.title, al.lidarr_id, al.musicbrainz_id, al.cover_path,
		al.description, al.release_date, al.metadata_updated_at,
		(SELECT COUNT(*) FROM tracks t WHERE t.album_id = al.id),
		(SELECT COUNT(DISTINCT l.track_id) FROM lyrics l JOIN tracks t ON t.id = l.track_id WHERE t.album_id = al.id),
		(SELECT COUNT(DISTINCT l.track_id) FROM lyrics l JOIN tracks t ON t.id = l.track_id WHERE t.album_id = al.id AND l.synced = 1)
	FROM albums al
`

// AlbumRepository persists albums mirrored from Lidarr.
type AlbumRepository struct {
	db     *sql.DB
	events events.Sender
}

// NewAlbumRepository creates a new AlbumRepository that announces changes on sender.
func NewAlbumRepository(db *sql.DB, sender events.Sender) *AlbumRepository {
	return &AlbumRepository{db: db, events: senderOrDiscard(sender)}
}

// Find retrieves an album and its track statistics by ID
func (r *AlbumRepository) Find(ctx context.Context, id int64) (models.Album, error) {
	return findAlbum(ctx, r.db, id)
}

// List retrieves albums matching filter, ordered by release date then title
func (r *AlbumRepository) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, error) {
	query := albumSelect + " WHERE 1 = 1"
	args := []any{}

	if filter.ArtistID != nil {
		query += " AND al.artist_id = ?"
		args = append(args, *filter.ArtistID)
	}

	query += " ORDER BY al.release_date, al.title COLLATE NOCASE, al.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := []models.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return albums, nil
}

// UpsertLidarr inserts or refreshes the album identified by its Lidarr id and returns the local id.
//
// The owning artist must already be mirrored.
func (r *AlbumRepository) UpsertLidarr(ctx context.Context, record models.LidarrAlbum) (int64, error) {
	var artistID int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM artists WHERE lidarr_id = ?`, record.ArtistID).Scan(&artistID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("album %q references lidarr artist %d: %w", record.Title, record.ArtistID, notFound("artist", record.ArtistID))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve album artist: %w", err)
	}

	var existing *models.Album
	row := r.db.QueryRowContext(ctx, albumSelect+" WHERE al.lidarr_id = ?", record.ID)
	if album, err := scanAlbum(row); err == nil {
		existing = &album
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if existing == nil {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO albums (artist_id, title, lidarr_id, musicbrainz_id, release_date) VALUES (?, ?, ?, ?, ?)`,
			artistID, record.Title, record.ID, record.ForeignAlbumID, record.ReleaseDate,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert album: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read album id: %w", err)
		}

		album, err := r.Find(ctx, id)
		if err != nil {
			return 0, err
		}
		r.events.Send(models.AlbumCreated{Album: album})
		return id, nil
	}

	unchanged := existing.ArtistID == artistID &&
		existing.Title == record.Title &&
		equalStrings(existing.MusicBrainzID, record.ForeignAlbumID) &&
		equalStrings(existing.ReleaseDate, record.ReleaseDate)
	if unchanged {
		return existing.ID, nil
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE albums SET artist_id = ?, title = ?, musicbrainz_id = ?, release_date = ?, updated_at = ? WHERE id = ?`,
		artistID, record.Title, record.ForeignAlbumID, record.ReleaseDate, time.Now().UTC(), existing.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update album: %w", err)
	}

	album, err := r.Find(ctx, existing.ID)
	if err != nil {
		return 0, err
	}
	r.events.Send(models.AlbumUpdated{Album: album})
	return existing.ID, nil
}

// FindExcluding returns the ids of the artist's albums that are not in ids.
func (r *AlbumRepository) FindExcluding(ctx context.Context, artistID int64, ids []int64) ([]int64, error) {
	query, args := excluding(`SELECT id FROM albums WHERE artist_id = ?`, "id", ids, []any{artistID})
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	return scanIDs(rows)
}

// SetMetadata stores the album cover and description and stamps metadata_updated_at.
func (r *AlbumRepository) SetMetadata(ctx context.Context, id int64, coverPath, description *string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE albums SET cover_path = ?, description = ?, metadata_updated_at = ?, updated_at = ? WHERE id = ?`,
		coverPath, description, now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update album metadata: %w", err)
	}
	if err := expectRow(result, "album", id); err != nil {
		return err
	}

	album, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	r.events.Send(models.AlbumUpdated{Album: album})
	return nil
}

// Remove deletes an album by ID
func (r *AlbumRepository) Remove(ctx context.Context, id int64) error {
	album, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if err := expectRow(result, "album", id); err != nil {
		return err
	}

	r.events.Send(models.AlbumDeleted{Album: album})
	return nil
}

func findAlbum(ctx context.Context, db *sql.DB, id int64) (models.Album, error) {
	album, err := scanAlbum(db.QueryRowContext(ctx, albumSelect+" WHERE al.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Album{}, notFound("album", id)
	}
	return album, err
}

// scanAlbum scans an [albumSelect] row into a [models.Album]. [sql.ErrNoRows] is returned unwrapped.
func scanAlbum(row rowScanner) (models.Album, error) {
	var (
		album         models.Album
		lidarrID      sql.NullInt64
		musicbrainzID sql.NullString
		coverPath     sql.NullString
		description   sql.NullString
		releaseDate   sql.NullString
		metadataAt    sql.NullTime
	)

	err := row.Scan(
		&album.ID, &album.ArtistID, &album.Title, &lidarrID, &musicbrainzID, &coverPath,
		&description, &releaseDate, &metadataAt,
		&album.Stats.TracksCount, &album.Stats.WithLyricsCount, &album.Stats.SyncedCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return album, err
	}
	if err != nil {
		return album, fmt.Errorf("failed to scan album: %w", err)
	}

	album.LidarrID = int64Ptr(lidarrID)
	album.MusicBrainzID = stringPtr(musicbrainzID)
	album.CoverPath = stringPtr(coverPath)
	album.Description = stringPtr(description)
	album.ReleaseDate = stringPtr(releaseDate)
	album.MetadataUpdatedAt = timePtr(metadataAt)
	return album, nil
}
