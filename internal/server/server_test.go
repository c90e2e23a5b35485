package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/scheduler"
	"github.com/desertthunder/singarr/internal/services"
	"github.com/desertthunder/singarr/internal/shared"
	th "github.com/desertthunder/singarr/internal/testing"
)

type fakeJobs struct {
	jobs       []models.Job
	lastFilter models.JobFilter
}

func (f *fakeJobs) Enqueue(_ context.Context, payload models.Payload) (models.Job, error) {
	job := models.NewJob(payload)
	job.ID = int64(len(f.jobs) + 1)
	f.jobs = append(f.jobs, job)
	return job, nil
}

func (f *fakeJobs) Find(_ context.Context, id int64) (models.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return models.Job{}, shared.ErrJobNotFound
}

func (f *fakeJobs) List(_ context.Context, filter models.JobFilter) ([]models.Job, error) {
	f.lastFilter = filter
	return f.jobs, nil
}

type fakeTasks struct{}

func (fakeTasks) List() []scheduler.ScheduledTask {
	return []scheduler.ScheduledTask{{ID: "t1", Cron: "0 0 * * * *", Payload: models.SyncLibrary{}}}
}

func (fakeTasks) Next(string) (time.Time, bool) {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), true
}

func newTestServer(t *testing.T, upstream ...services.Service) (*httptest.Server, *fakeJobs, *events.Bus) {
	t.Helper()

	jobs := &fakeJobs{}
	bus := events.NewBus()
	s := New(Deps{
		Jobs:     jobs,
		Tasks:    fakeTasks{},
		Bus:      bus,
		Services: upstream,
		Logger:   shared.NewLogger(io.Discard),
	})

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts, jobs, bus
}

func TestJobsRoutes(t *testing.T) {
	ts, jobs, _ := newTestServer(t)

	t.Run("create", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/jobs", "application/json", strings.NewReader(`{"type":"scanAlbum","albumId":3}`))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		var job models.Job
		if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
			t.Fatalf("failed to decode job: %v", err)
		}
		if p, ok := job.Payload.(models.ScanAlbum); !ok || p.AlbumID != 3 {
			t.Errorf("expected scanAlbum 3, got %+v", job.Payload)
		}
		if job.Status != models.JobPending {
			t.Errorf("expected pending, got %s", job.Status)
		}
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown payload", http.MethodPost, "/jobs", `{"type":"dance"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/jobs", `{`, http.StatusBadRequest},
		{"find", http.MethodGet, "/jobs/1", "", http.StatusOK},
		{"missing job", http.MethodGet, "/jobs/99", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/jobs/abc", "", http.StatusBadRequest},
		{"bad status", http.MethodGet, "/jobs?status=bogus", "", http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/jobs?limit=-1", "", http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "/jobs", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}

	t.Run("list passes filter", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/jobs?status=done&limit=5")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if jobs.lastFilter.Status == nil || *jobs.lastFilter.Status != models.JobDone || jobs.lastFilter.Limit != 5 {
			t.Errorf("unexpected filter %+v", jobs.lastFilter)
		}
	})
}

func TestTasksRoute(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/tasks")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var tasks []struct {
		ID      string          `json:"id"`
		Payload json.RawMessage `json:"payload"`
		Next    *time.Time      `json:"next"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		t.Fatalf("failed to decode tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" || tasks[0].Next == nil {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if !strings.Contains(string(tasks[0].Payload), `"syncLibrary"`) {
		t.Errorf("expected tagged payload, got %s", tasks[0].Payload)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		upstream []services.Service
		status   int
	}{
		{"all up", []services.Service{&th.MockService{ServiceName: "Lidarr"}}, http.StatusOK},
		{"one down", []services.Service{&th.MockService{ServiceName: "Lidarr"}, &th.MockService{ServiceName: "LrcLib", Err: errors.New("down")}}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _, _ := newTestServer(t, tt.upstream...)
			resp, err := http.Get(ts.URL + "/healthz")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			var body healthResponse
			json.NewDecoder(resp.Body).Decode(&body)
			if len(body.Services) != len(tt.upstream) {
				t.Errorf("expected %d statuses, got %d", len(tt.upstream), len(body.Services))
			}
		})
	}
}

func TestSocket(t *testing.T) {
	ts, _, bus := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for bus.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if bus.Subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", bus.Subscribers())
	}

	bus.Send(models.JobLog{JobID: 4, Log: "[1/2] Scanning track: Hunter"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}

	event, err := models.UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if log, ok := event.(models.JobLog); !ok || log.JobID != 4 {
		t.Errorf("expected jobLog for job 4, got %+v", event)
	}
}

func TestRecover(t *testing.T) {
	router := NewBasicRouter()
	router.Use(Recover(shared.NewLogger(io.Discard)))
	router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
