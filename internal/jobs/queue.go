package jobs

import (
	"context"
	"sync"

	"github.com/desertthunder/singarr/internal/models"
)

// Queue is an unbounded FIFO of jobs waiting for the worker.
//
// Push never blocks, so producers such as the scheduler and the HTTP API never wait on a busy worker.
type Queue struct {
	mu     sync.Mutex
	items  []models.Job
	notify chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends job to the tail of the queue.
func (q *Queue) Push(job models.Job) {
	q.mu.Lock()
	q.items = append(q.items, job)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// TryPop removes the head of the queue without waiting.
func (q *Queue) TryPop() (models.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return models.Job{}, false
	}

	job := q.items[0]
	q.items[0] = models.Job{}
	q.items = q.items[1:]
	return job, true
}

// Pop blocks until a job is available or ctx is done.
func (q *Queue) Pop(ctx context.Context) (models.Job, error) {
	for {
		if job, ok := q.TryPop(); ok {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return models.Job{}, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len reports the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
