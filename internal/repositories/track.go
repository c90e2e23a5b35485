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

const trackSelect = `
	SELECT
		t.id, t.artist_id, t.album_id, t.lidarr_id, t.track_number, t.title, t.file_path, t.duration_ms,
		EXISTS(SELECT 1 FROM lyrics l WHERE l.track_id = t.id),
		ar.name, al.title
	FROM tracks t
	JOIN artists ar ON ar.id = t.artist_id
	JOIN albums al ON al.id = t.album_id
`

// TrackRepository persists tracks paired with their Lidarr track file.
type TrackRepository struct {
	db     *sql.DB
	events events.Sender
}

// NewTrackRepository creates a new TrackRepository that announces changes on sender.
func NewTrackRepository(db *sql.DB, sender events.Sender) *TrackRepository {
	return &TrackRepository{db: db, events: senderOrDiscard(sender)}
}

// Find retrieves a track by ID
func (r *TrackRepository) Find(ctx context.Context, id int64) (models.Track, error) {
	return findTrack(ctx, r.db, id)
}

// List retrieves tracks matching filter, ordered by album then track number
func (r *TrackRepository) List(ctx context.Context, filter models.TrackFilter) ([]models.Track, error) {
	query := trackSelect + " WHERE 1 = 1"
	args := []any{}

	if filter.ArtistID != nil {
		query += " AND t.artist_id = ?"
		args = append(args, *filter.ArtistID)
	}

	if filter.AlbumID != nil {
		query += " AND t.album_id = ?"
		args = append(args, *filter.AlbumID)
	}

	if filter.HasLyrics != nil {
		if *filter.HasLyrics {
			query += " AND EXISTS(SELECT 1 FROM lyrics l WHERE l.track_id = t.id)"
		} else {
			query += " AND NOT EXISTS(SELECT 1 FROM lyrics l WHERE l.track_id = t.id)"
		}
	}

	query += " ORDER BY t.album_id, t.track_number, t.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

// UpsertLidarr inserts or refreshes the track identified by its Lidarr id and returns the local id.
//
// The owning album and artist must already be mirrored.
func (r *TrackRepository) UpsertLidarr(ctx context.Context, record models.LidarrTrack, file models.LidarrTrackFile) (int64, error) {
	var artistID, albumID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT ar.id, al.id FROM artists ar, albums al WHERE ar.lidarr_id = ? AND al.lidarr_id = ?`,
		record.ArtistID, record.AlbumID,
	).Scan(&artistID, &albumID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("track %q references lidarr album %d: %w", record.Title, record.AlbumID, notFound("album", record.AlbumID))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve track owners: %w", err)
	}

	var existing *models.Track
	if track, err := scanTrack(r.db.QueryRowContext(ctx, trackSelect+" WHERE t.lidarr_id = ?", record.ID)); err == nil {
		existing = &track
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if existing == nil {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO tracks (artist_id, album_id, lidarr_id, musicbrainz_id, track_number, title, file_path, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			artistID, albumID, record.ID, record.ForeignTrackID, record.AbsoluteTrackNumber, record.Title, file.Path, record.Duration,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert track: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read track id: %w", err)
		}

		track, err := r.Find(ctx, id)
		if err != nil {
			return 0, err
		}
		r.events.Send(models.TrackCreated{Track: track})
		return id, nil
	}

	unchanged := existing.ArtistID == artistID &&
		existing.AlbumID == albumID &&
		existing.TrackNumber == record.AbsoluteTrackNumber &&
		existing.Title == record.Title &&
		existing.FilePath == file.Path &&
		existing.DurationMs == record.Duration
	if unchanged {
		return existing.ID, nil
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE tracks SET artist_id = ?, album_id = ?, musicbrainz_id = ?, track_number = ?, title = ?,
			file_path = ?, duration_ms = ?, updated_at = ?
		WHERE id = ?`,
		artistID, albumID, record.ForeignTrackID, record.AbsoluteTrackNumber, record.Title,
		file.Path, record.Duration, time.Now().UTC(), existing.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update track: %w", err)
	}

	track, err := r.Find(ctx, existing.ID)
	if err != nil {
		return 0, err
	}
	r.events.Send(models.TrackUpdated{Track: track})
	return existing.ID, nil
}

// FindExcluding returns the ids of the album's tracks that are not in ids.
func (r *TrackRepository) FindExcluding(ctx context.Context, albumID int64, ids []int64) ([]int64, error) {
	query, args := excluding(`SELECT id FROM tracks WHERE album_id = ?`, "id", ids, []any{albumID})
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	return scanIDs(rows)
}

// Remove deletes a track by ID
func (r *TrackRepository) Remove(ctx context.Context, id int64) error {
	track, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	if err := expectRow(result, "track", id); err != nil {
		return err
	}

	r.events.Send(models.TrackDeleted{Track: track})
	return nil
}

func findTrack(ctx context.Context, db *sql.DB, id int64) (models.Track, error) {
	track, err := scanTrack(db.QueryRowContext(ctx, trackSelect+" WHERE t.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Track{}, notFound("track", id)
	}
	return track, err
}

// scanTrack scans a [trackSelect] row into a [models.Track]. [sql.ErrNoRows] is returned unwrapped.
func scanTrack(row rowScanner) (models.Track, error) {
	var (
		track    models.Track
		lidarrID sql.NullInt64
	)

	err := row.Scan(
		&track.ID, &track.ArtistID, &track.AlbumID, &lidarrID, &track.TrackNumber, &track.Title,
		&track.FilePath, &track.DurationMs, &track.HasLyrics, &track.ArtistName, &track.AlbumTitle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return track, err
	}
	if err != nil {
		return track, fmt.Errorf("failed to scan track: %w", err)
	}

	track.LidarrID = int64Ptr(lidarrID)
	return track, nil
}
