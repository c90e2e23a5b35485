package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

func TestServerURL(t *testing.T) {
	tests := []struct {
		addr, expected string
	}{
		{":8080", "http://localhost:8080"},
		{"0.0.0.0:9000", "http://0.0.0.0:9000"},
		{"https://singarr.example", "https://singarr.example"},
	}
	for _, tt := range tests {
		if got := ServerURL(tt.addr); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}

func TestServerClient(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()

	var posted []byte
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		posted, _ = io.ReadAll(r.Body)
		payload, err := models.UnmarshalPayload(posted)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		job := models.NewJob(payload)
		job.ID = 7
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(job)
	})
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "failed" || r.URL.Query().Get("limit") != "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		jsonHandler(`[{"id":1,"payload":{"type":"syncLibrary"},"status":"failed","error":"boom"}]`)(w, r)
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"job not found"}`))
	})
	mux.HandleFunc("GET /tasks", jsonHandler(`[{"id":"a","cron":"0 0 * * * *","payload":{"type":"scanLibrary"}}]`))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"ok":false,"services":[{"name":"Lidarr","ok":false,"error":"down"}]}`))
	})

	upgrader := websocket.Upgrader{}
	mux.HandleFunc("GET /socket", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"somethingNew"}`))
		data, _ := models.MarshalEvent(models.JobLog{JobID: 7, Log: "Syncing artist: Björk"})
		conn.WriteMessage(websocket.TextMessage, data)
	})

	server := httptest.NewServer(mux)
	defer server.Close()
	client := NewServerClient(server.URL)

	t.Run("Enqueue", func(t *testing.T) {
		job, err := client.Enqueue(ctx, models.ScanAlbum{AlbumID: 3})
		if err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		if job.ID != 7 || job.Status != models.JobPending {
			t.Errorf("unexpected job %+v", job)
		}
		if string(posted) != `{"type":"scanAlbum","albumId":3}` {
			t.Errorf("unexpected body %s", posted)
		}
	})

	t.Run("List", func(t *testing.T) {
		status := models.JobFailed
		jobs, err := client.List(ctx, models.JobFilter{Status: &status, Limit: 2})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(jobs) != 1 || jobs[0].Error == nil || *jobs[0].Error != "boom" {
			t.Errorf("unexpected jobs %+v", jobs)
		}
	})

	t.Run("Find missing", func(t *testing.T) {
		_, err := client.Find(ctx, 99)
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Tasks", func(t *testing.T) {
		tasks, err := client.Tasks(ctx)
		if err != nil {
			t.Fatalf("tasks failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].Payload != (models.ScanLibrary{}) || tasks[0].Next != nil {
			t.Errorf("unexpected tasks %+v", tasks)
		}
	})

	t.Run("Health degraded", func(t *testing.T) {
		statuses, err := client.Health(ctx)
		if err != nil {
			t.Fatalf("health failed: %v", err)
		}
		if len(statuses) != 1 || statuses[0].OK || statuses[0].Name != "Lidarr" || statuses[0].Error != "down" {
			t.Errorf("unexpected statuses %+v", statuses)
		}
	})

	t.Run("Subscribe skips unknown events", func(t *testing.T) {
		stream, err := client.Subscribe(ctx)
		if err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
		defer stream.Close()

		event, err := stream.Next()
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if log, ok := event.(models.JobLog); !ok || log.JobID != 7 {
			t.Errorf("expected jobLog for 7, got %+v", event)
		}
	})
}
