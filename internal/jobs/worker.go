package jobs

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
)

// Handler executes the body of a job. Implemented by tasks.Engine.
type Handler interface {
	Run(ctx context.Context, job models.Job) error
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(ctx context.Context, job models.Job) error

func (f HandlerFunc) Run(ctx context.Context, job models.Job) error { return f(ctx, job) }

// Worker is the single consumer of the queue.
type Worker struct {
	store   Store
	queue   *Queue
	handler Handler
	events  events.Sender
	logger  *log.Logger
}

// NewWorker creates a worker that runs queued jobs through handler.
func NewWorker(store Store, queue *Queue, handler Handler, sender events.Sender, logger *log.Logger) *Worker {
	return &Worker{store: store, queue: queue, handler: handler, events: sender, logger: logger}
}

// Run processes jobs in FIFO order until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started")
	for {
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("worker stopped")
				return nil
			}
			return err
		}
		w.Process(ctx, job)
	}
}

// Process runs one job to a terminal status.
//
// Failures to persist a status are logged and do not stop the job.
func (w *Worker) Process(ctx context.Context, job models.Job) {
	logger := w.logger.With("job", job.ID, "type", job.Payload.Type())

	job.Status = models.JobRunning
	if err := w.store.UpdateStatus(ctx, job.ID, models.JobRunning, nil); err != nil {
		logger.Warn("failed to mark job running", "error", err)
	}
	w.events.Send(models.JobStart{Job: job})
	logger.Info("job started")

	if err := w.handler.Run(ctx, job); err != nil {
		message := err.Error()
		job.Status = models.JobFailed
		job.Error = &message
		logger.Error("job failed", "error", err)
		if err := w.store.UpdateStatus(ctx, job.ID, models.JobFailed, &message); err != nil {
			logger.Warn("failed to mark job failed", "error", err)
		}
	} else {
		job.Status = models.JobDone
		logger.Info("job done")
		if err := w.store.UpdateStatus(ctx, job.ID, models.JobDone, nil); err != nil {
			logger.Warn("failed to mark job done", "error", err)
		}
	}

	if stored, err := w.store.Find(ctx, job.ID); err == nil {
		job = stored
	} else {
		logger.Warn("failed to reload job", "error", err)
	}
	w.events.Send(models.JobEnd{Job: job})
}
