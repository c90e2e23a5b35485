package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/singarr/internal/models"
)

// NotifierRepository persists configured event sinks.
type NotifierRepository struct {
	db *sql.DB
}

// NewNotifierRepository creates a new NotifierRepository with the given database connection
func NewNotifierRepository(db *sql.DB) *NotifierRepository {
	return &NotifierRepository{db: db}
}

// Create stores a sink configuration and returns the saved notifier.
func (r *NotifierRepository) Create(ctx context.Context, params models.NotifierParams) (models.Notifier, error) {
	data, err := models.MarshalNotifierParams(params)
	if err != nil {
		return models.Notifier{}, fmt.Errorf("failed to encode notifier params: %w", err)
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifiers (type, params, created_at) VALUES (?, ?, ?)`,
		string(params.Type()), string(data), now,
	)
	if err != nil {
		return models.Notifier{}, fmt.Errorf("failed to insert notifier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Notifier{}, fmt.Errorf("failed to read notifier id: %w", err)
	}
	return models.Notifier{ID: id, CreatedAt: now, Params: params}, nil
}

// Find retrieves a notifier by ID
func (r *NotifierRepository) Find(ctx context.Context, id int64) (models.Notifier, error) {
	notifier, err := scanNotifier(r.db.QueryRowContext(ctx, `SELECT id, params, created_at FROM notifiers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notifier{}, notFound("notifier", id)
	}
	return notifier, err
}

// List retrieves every notifier in creation order
func (r *NotifierRepository) List(ctx context.Context) ([]models.Notifier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, params, created_at FROM notifiers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifiers: %w", err)
	}
	defer rows.Close()

	notifiers := []models.Notifier{}
	for rows.Next() {
		notifier, err := scanNotifier(rows)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, notifier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return notifiers, nil
}

// Remove deletes a notifier by ID
func (r *NotifierRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifiers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notifier: %w", err)
	}
	return expectRow(result, "notifier", id)
}

func scanNotifier(row rowScanner) (models.Notifier, error) {
	var (
		notifier models.Notifier
		params   string
	)

	err := row.Scan(&notifier.ID, &params, &notifier.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return notifier, err
	}
	if err != nil {
		return notifier, fmt.Errorf("failed to scan notifier: %w", err)
	}

	notifier.Params, err = models.UnmarshalNotifierParams([]byte(params))
	if err != nil {
		return notifier, fmt.Errorf("failed to decode notifier %d: %w", notifier.ID, err)
	}
	return notifier, nil
}
