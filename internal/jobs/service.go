package jobs

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// interrupted is recorded on jobs that were running when the previous process stopped.
const interrupted = "interrupted"

// Store persists jobs. Implemented by repositories.JobRepository.
type Store interface {
	Create(ctx context.Context, job *models.Job) error
	Find(ctx context.Context, id int64) (models.Job, error)
	UpdateStatus(ctx context.Context, id int64, status models.JobStatus, message *string) error
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error)
}

// Service is the entry point for creating and inspecting jobs.
type Service struct {
	store    Store
	queue    *Queue
	validate *validator.Validate
	logger   *log.Logger
}

// NewService creates a Service that persists to store and feeds queue.
func NewService(store Store, queue *Queue, logger *log.Logger) *Service {
	return &Service{
		store:    store,
		queue:    queue,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Enqueue validates payload, persists a pending job and queues it for the worker.
//
// Nothing is queued when validation or persistence fails.
func (s *Service) Enqueue(ctx context.Context, payload models.Payload) (models.Job, error) {
	if err := s.Validate(payload); err != nil {
		return models.Job{}, err
	}

	job := models.NewJob(payload)
	if err := s.store.Create(ctx, &job); err != nil {
		return models.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	s.queue.Push(job)
	s.logger.Debug("job enqueued", "job", job.ID, "type", payload.Type())
	return job, nil
}

// Validate checks the payload's field constraints.
func (s *Service) Validate(payload models.Payload) error {
	if payload == nil {
		return fmt.Errorf("%w: nil payload", shared.ErrInvalidPayload)
	}
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrInvalidPayload, payload.Type(), err)
	}
	return nil
}

// Find retrieves a job by ID
func (s *Service) Find(ctx context.Context, id int64) (models.Job, error) {
	return s.store.Find(ctx, id)
}

// List retrieves jobs matching filter, newest first
func (s *Service) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	return s.store.List(ctx, filter)
}

// Recover prepares the queue after a restart.
//
// Jobs left running are marked failed; pending jobs are queued again, oldest first.
// Returns the number of re-queued jobs.
func (s *Service) Recover(ctx context.Context) (int, error) {
	running, err := s.store.ListByStatus(ctx, models.JobRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to list running jobs: %w", err)
	}

	message := interrupted
	for _, job := range running {
		if err := s.store.UpdateStatus(ctx, job.ID, models.JobFailed, &message); err != nil {
			return 0, fmt.Errorf("failed to fail interrupted job %d: %w", job.ID, err)
		}
		s.logger.Warn("job interrupted by restart", "job", job.ID, "type", job.Payload.Type())
	}

	pending, err := s.store.ListByStatus(ctx, models.JobPending)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending jobs: %w", err)
	}

	for _, job := range pending {
		s.queue.Push(job)
	}
	if len(pending) > 0 {
		s.logger.Info("re-queued pending jobs", "count", len(pending))
	}
	return len(pending), nil
}
