// Package scheduler enqueues recurring jobs on cron schedules.
//
// Expressions use six fields with seconds first, e.g. "0 30 4 * * *" for 04:30:00 every day.
// The scheduler only enqueues; it never waits on or inspects the jobs it creates.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// Enqueuer creates jobs. Implemented by jobs.Service.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload models.Payload) (models.Job, error)
}

// ScheduledTask is a registered recurring job. Tasks live for the lifetime of the process.
type ScheduledTask struct {
	ID      string         `json:"id"`
	Cron    string         `json:"cron"`
	Payload models.Payload `json:"-"`
}

// MarshalJSON encodes the task with its payload as a tagged object.
func (t ScheduledTask) MarshalJSON() ([]byte, error) {
	payload, err := models.MarshalPayload(t.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID      string          `json:"id"`
		Cron    string          `json:"cron"`
		Payload json.RawMessage `json:"payload"`
	}{t.ID, t.Cron, payload})
}

// Defaults are the tasks registered by [Scheduler.RegisterDefaults].
var Defaults = []struct {
	Cron    string
	Payload models.Payload
}{
	{Cron: "0 0 * * * *", Payload: models.SyncLibrary{}},
	{Cron: "0 30 4 * * *", Payload: models.ScanLibrary{}},
	{Cron: "0 30 */6 * * *", Payload: models.SearchLibrary{}},
}

type entry struct {
	task    ScheduledTask
	entryID cron.EntryID
}

// Scheduler wraps a seconds-aware cron runner.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	enqueuer Enqueuer
	entries  map[string]entry
	logger   *log.Logger
}

// New creates a stopped scheduler that enqueues through enqueuer.
func New(enqueuer Enqueuer, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		enqueuer: enqueuer,
		entries:  map[string]entry{},
		logger:   logger,
	}
}

// Add registers payload to be enqueued on every tick of expr and returns the task handle.
func (s *Scheduler) Add(expr string, payload models.Payload) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("%w: nil payload", shared.ErrInvalidPayload)
	}

	id := uuid.NewString()
	entryID, err := s.cron.AddFunc(expr, func() { s.fire(id, payload) })
	if err != nil {
		return "", fmt.Errorf("%w: cron %q: %v", shared.ErrInvalidArgument, expr, err)
	}

	s.mu.Lock()
	s.entries[id] = entry{task: ScheduledTask{ID: id, Cron: expr, Payload: payload}, entryID: entryID}
	s.mu.Unlock()

	s.logger.Debug("task scheduled", "task", id, "cron", expr, "type", payload.Type())
	return id, nil
}

// fire enqueues a copy of payload. Payloads are values, so each tick gets its own.
func (s *Scheduler) fire(id string, payload models.Payload) {
	job, err := s.enqueuer.Enqueue(context.Background(), payload)
	if err != nil {
		s.logger.Error("failed to enqueue scheduled job", "task", id, "type", payload.Type(), "error", err)
		return
	}
	s.logger.Info("scheduled job enqueued", "task", id, "job", job.ID, "type", payload.Type())
}

// RegisterDefaults adds the library sync, scan and search tasks.
func (s *Scheduler) RegisterDefaults() error {
	for _, d := range Defaults {
		if _, err := s.Add(d.Cron, d.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Remove unregisters a task. Returns false when the handle is unknown.
func (s *Scheduler) Remove(id string) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		s.cron.Remove(e.entryID)
	}
	return ok
}

// List returns the registered tasks sorted by cron expression, then handle.
func (s *Scheduler) List() []ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]ScheduledTask, 0, len(s.entries))
	for _, e := range s.entries {
		tasks = append(tasks, e.task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Cron != tasks[j].Cron {
			return tasks[i].Cron < tasks[j].Cron
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

// Next reports when the task fires next. The zero time means not scheduled or not started.
func (s *Scheduler) Next(id string) (time.Time, bool) {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(e.entryID).Next, true
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop. The returned context is done once running ticks finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
