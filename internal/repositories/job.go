package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

const jobColumns = `id, type, payload, status, error, created_at, updated_at`

// JobRepository persists the job audit trail.
//
// Rows are never deleted; only the worker moves a job through its statuses.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts job and sets its generated ID
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.Payload == nil {
		return fmt.Errorf("%w: nil payload", shared.ErrInvalidPayload)
	}

	payload, err := models.MarshalPayload(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	if job.Status == "" {
		job.Status = models.JobPending
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (type, payload, status, error, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(job.Payload.Type()), string(payload), string(job.Status), job.Error, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read job id: %w", err)
	}
	job.ID = id
	return nil
}

// Find retrieves a job by ID
func (r *JobRepository) Find(ctx context.Context, id int64) (models.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, fmt.Errorf("job %d: %w", id, shared.ErrJobNotFound)
	}
	return job, err
}

// UpdateStatus moves a job to status, recording message as its error when non-nil.
func (r *JobRepository) UpdateStatus(ctx context.Context, id int64, status models.JobStatus, message *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), message, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job %d: %w", id, shared.ErrJobNotFound)
	}
	return nil
}

// List retrieves jobs matching filter, newest first
func (r *JobRepository) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1 = 1`
	args := []any{}

	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return r.query(ctx, query, args...)
}

// ListByStatus retrieves every job in status, oldest first.
func (r *JobRepository) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	return r.query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY id`, string(status))
}

func (r *JobRepository) query(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return jobs, nil
}

// scanJob scans a job row into a [models.Job]. [sql.ErrNoRows] is returned unwrapped.
func scanJob(row rowScanner) (models.Job, error) {
	var (
		job      models.Job
		kind     string
		payload  string
		status   string
		errorMsg sql.NullString
	)

	err := row.Scan(&job.ID, &kind, &payload, &status, &errorMsg, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return job, err
	}
	if err != nil {
		return job, fmt.Errorf("failed to scan job: %w", err)
	}

	job.Payload, err = models.UnmarshalPayload([]byte(payload))
	if err != nil {
		return job, fmt.Errorf("failed to decode %s payload of job %d: %w", kind, job.ID, err)
	}

	job.Status, err = models.ParseJobStatus(status)
	if err != nil {
		return job, err
	}
	job.Error = stringPtr(errorMsg)
	return job, nil
}
