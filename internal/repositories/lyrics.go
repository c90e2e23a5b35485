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

const lyricsSelect = `
	SELECT l.id, l.track_id, l.file_path, l.synced, l.checksum, l.provider, l.language, l.created_at
	FROM lyrics l
	JOIN tracks t ON t.id = l.track_id
`

// LyricsRepository persists lyrics files tracked on disk.
type LyricsRepository struct {
	db     *sql.DB
	events events.Sender
}

// NewLyricsRepository creates a new LyricsRepository that announces changes on sender.
func NewLyricsRepository(db *sql.DB, sender events.Sender) *LyricsRepository {
	return &LyricsRepository{db: db, events: senderOrDiscard(sender)}
}

// Find retrieves lyrics by ID
func (r *LyricsRepository) Find(ctx context.Context, id int64) (models.Lyrics, error) {
	lyrics, err := scanLyrics(r.db.QueryRowContext(ctx, lyricsSelect+" WHERE l.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lyrics{}, notFound("lyrics", id)
	}
	return lyrics, err
}

// FindByPath retrieves lyrics by their path relative to the library root.
// Returns nil without error when no lyrics are tracked at path.
func (r *LyricsRepository) FindByPath(ctx context.Context, path string) (*models.Lyrics, error) {
	lyrics, err := scanLyrics(r.db.QueryRowContext(ctx, lyricsSelect+" WHERE l.file_path = ?", path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lyrics, nil
}

// Detail retrieves lyrics together with their track, album and artist.
func (r *LyricsRepository) Detail(ctx context.Context, id int64) (models.LyricsDetail, error) {
	lyrics, err := r.Find(ctx, id)
	if err != nil {
		return models.LyricsDetail{}, err
	}
	return r.detail(ctx, lyrics)
}

func (r *LyricsRepository) detail(ctx context.Context, lyrics models.Lyrics) (models.LyricsDetail, error) {
	detail := models.LyricsDetail{Lyrics: lyrics}

	track, err := findTrack(ctx, r.db, lyrics.TrackID)
	if err != nil {
		return detail, err
	}
	album, err := findAlbum(ctx, r.db, track.AlbumID)
	if err != nil {
		return detail, err
	}
	artist, err := findArtist(ctx, r.db, track.ArtistID)
	if err != nil {
		return detail, err
	}

	detail.Track = track
	detail.Album = album
	detail.Artist = artist
	return detail, nil
}

// List retrieves lyrics matching filter
func (r *LyricsRepository) List(ctx context.Context, filter models.LyricsFilter) ([]models.Lyrics, error) {
	query := lyricsSelect + " WHERE 1 = 1"
	args := []any{}

	if filter.ArtistID != nil {
		query += " AND t.artist_id = ?"
		args = append(args, *filter.ArtistID)
	}

	if filter.AlbumID != nil {
		query += " AND t.album_id = ?"
		args = append(args, *filter.AlbumID)
	}

	if filter.TrackID != nil {
		query += " AND l.track_id = ?"
		args = append(args, *filter.TrackID)
	}

	query += " ORDER BY l.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lyrics: %w", err)
	}
	defer rows.Close()

	all := []models.Lyrics{}
	for rows.Next() {
		lyrics, err := scanLyrics(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, lyrics)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return all, nil
}

// Create records a lyrics file and announces it.
func (r *LyricsRepository) Create(ctx context.Context, data models.CreateLyrics) (models.Lyrics, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO lyrics (track_id, file_path, synced, checksum, provider, language, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.TrackID, data.FilePath, data.Synced, data.Checksum, data.Provider, data.Language, time.Now().UTC(),
	)
	if err != nil {
		return models.Lyrics{}, fmt.Errorf("failed to insert lyrics: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Lyrics{}, fmt.Errorf("failed to read lyrics id: %w", err)
	}

	detail, err := r.Detail(ctx, id)
	if err != nil {
		return models.Lyrics{}, err
	}
	r.events.Send(models.LyricsCreated{Lyrics: detail})
	return detail.Lyrics, nil
}

// Remove deletes the lyrics row by ID. The file on disk is left alone.
func (r *LyricsRepository) Remove(ctx context.Context, id int64) error {
	detail, err := r.Detail(ctx, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM lyrics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lyrics: %w", err)
	}
	if err := expectRow(result, "lyrics", id); err != nil {
		return err
	}

	r.events.Send(models.LyricsDeleted{Lyrics: detail})
	return nil
}

// DeleteMany removes every lyrics row of the album whose id is not in keepIDs and returns how many were removed.
func (r *LyricsRepository) DeleteMany(ctx context.Context, albumID int64, keepIDs []int64) (int, error) {
	query, args := excluding(
		`SELECT l.id FROM lyrics l JOIN tracks t ON t.id = l.track_id WHERE t.album_id = ?`,
		"l.id", keepIDs, []any{albumID},
	)
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY l.id", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query lyrics: %w", err)
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := r.Remove(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// scanLyrics scans a [lyricsSelect] row into a [models.Lyrics]. [sql.ErrNoRows] is returned unwrapped.
func scanLyrics(row rowScanner) (models.Lyrics, error) {
	var (
		lyrics   models.Lyrics
		provider sql.NullString
		language sql.NullString
	)

	err := row.Scan(
		&lyrics.ID, &lyrics.TrackID, &lyrics.FilePath, &lyrics.Synced, &lyrics.Checksum,
		&provider, &language, &lyrics.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return lyrics, err
	}
	if err != nil {
		return lyrics, fmt.Errorf("failed to scan lyrics: %w", err)
	}

	lyrics.Provider = stringPtr(provider)
	lyrics.Language = stringPtr(language)
	return lyrics, nil
}
