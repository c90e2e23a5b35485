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

const artistColumns = `a.id, a.name, a.lidarr_id, a.musicbrainz_id, a.image_path, a.description, a.metadata_updated_at`

// ArtistRepository persists artists mirrored from Lidarr.
type ArtistRepository struct {
	db     *sql.DB
	events events.Sender
}

// NewArtistRepository creates a new ArtistRepository that announces changes on sender.
func NewArtistRepository(db *sql.DB, sender events.Sender) *ArtistRepository {
	return &ArtistRepository{db: db, events: senderOrDiscard(sender)}
}

// Find retrieves an artist by ID
func (r *ArtistRepository) Find(ctx context.Context, id int64) (models.Artist, error) {
	return findArtist(ctx, r.db, id)
}

// List retrieves all artists ordered by name
func (r *ArtistRepository) List(ctx context.Context) ([]models.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists a ORDER BY a.name COLLATE NOCASE, a.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return artists, nil
}

// UpsertLidarr inserts or refreshes the artist identified by its Lidarr id and returns the local id.
func (r *ArtistRepository) UpsertLidarr(ctx context.Context, record models.LidarrArtist) (int64, error) {
	existing, err := r.findByLidarrID(ctx, record.ID)
	if err != nil {
		return 0, err
	}

	if existing == nil {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO artists (name, lidarr_id, musicbrainz_id) VALUES (?, ?, ?)`,
			record.ArtistName, record.ID, record.ForeignArtistID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert artist: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read artist id: %w", err)
		}

		artist, err := r.Find(ctx, id)
		if err != nil {
			return 0, err
		}
		r.events.Send(models.ArtistCreated{Artist: artist})
		return id, nil
	}

	if existing.Name == record.ArtistName && equalStrings(existing.MusicBrainzID, record.ForeignArtistID) {
		return existing.ID, nil
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE artists SET name = ?, musicbrainz_id = ?, updated_at = ? WHERE id = ?`,
		record.ArtistName, record.ForeignArtistID, time.Now().UTC(), existing.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update artist: %w", err)
	}

	artist, err := r.Find(ctx, existing.ID)
	if err != nil {
		return 0, err
	}
	r.events.Send(models.ArtistUpdated{Artist: artist})
	return existing.ID, nil
}

// FindExcluding returns the ids of all artists not in ids.
func (r *ArtistRepository) FindExcluding(ctx context.Context, ids []int64) ([]int64, error) {
	query, args := excluding(`SELECT id FROM artists WHERE 1 = 1`, "id", ids, nil)
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	return scanIDs(rows)
}

// SetMetadata stores the artist image and biography and stamps metadata_updated_at.
func (r *ArtistRepository) SetMetadata(ctx context.Context, id int64, imagePath, description *string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE artists SET image_path = ?, description = ?, metadata_updated_at = ?, updated_at = ? WHERE id = ?`,
		imagePath, description, now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update artist metadata: %w", err)
	}
	if err := expectRow(result, "artist", id); err != nil {
		return err
	}

	artist, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	r.events.Send(models.ArtistUpdated{Artist: artist})
	return nil
}

// Remove deletes an artist by ID
func (r *ArtistRepository) Remove(ctx context.Context, id int64) error {
	artist, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	if err := expectRow(result, "artist", id); err != nil {
		return err
	}

	r.events.Send(models.ArtistDeleted{Artist: artist})
	return nil
}

func (r *ArtistRepository) findByLidarrID(ctx context.Context, lidarrID int64) (*models.Artist, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists a WHERE a.lidarr_id = ?`, lidarrID)
	artist, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func findArtist(ctx context.Context, db *sql.DB, id int64) (models.Artist, error) {
	row := db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists a WHERE a.id = ?`, id)
	artist, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Artist{}, notFound("artist", id)
	}
	return artist, err
}

// scanArtist scans [artistColumns] into a [models.Artist]. [sql.ErrNoRows] is returned unwrapped.
func scanArtist(row rowScanner) (models.Artist, error) {
	var (
		artist        models.Artist
		lidarrID      sql.NullInt64
		musicbrainzID sql.NullString
		imagePath     sql.NullString
		description   sql.NullString
		metadataAt    sql.NullTime
	)

	err := row.Scan(&artist.ID, &artist.Name, &lidarrID, &musicbrainzID, &imagePath, &description, &metadataAt)
	if errors.Is(err, sql.ErrNoRows) {
		return artist, err
	}
	if err != nil {
		return artist, fmt.Errorf("failed to scan artist: %w", err)
	}

	artist.LidarrID = int64Ptr(lidarrID)
	artist.MusicBrainzID = stringPtr(musicbrainzID)
	artist.ImagePath = stringPtr(imagePath)
	artist.Description = stringPtr(description)
	artist.MetadataUpdatedAt = timePtr(metadataAt)
	return artist, nil
}

func expectRow(result sql.Result, kind string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(kind, id)
	}
	return nil
}
