package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/services"
	"github.com/desertthunder/singarr/internal/shared"
)

// maxPayloadSize bounds POST /jobs bodies. Imported lyrics are the largest payloads.
const maxPayloadSize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	OK       bool              `json:"ok"`
	Services []services.Status `json:"services"`
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	var filter models.JobFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseJobStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: limit %q", shared.ErrInvalidArgument, raw))
			return
		}
		filter.Limit = limit
	}

	jobs, err := s.jobs.List(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: job id %q", shared.ErrInvalidArgument, r.PathValue("id")))
		return
	}

	job, err := s.jobs.Find(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}

	payload, err := models.UnmarshalPayload(body)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	job, err := s.jobs.Enqueue(r.Context(), payload)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) listTasks(w http.ResponseWriter, _ *http.Request) {
	tasks := s.tasks.List()
	out := make([]models.TaskInfo, 0, len(tasks))
	for _, task := range tasks {
		info := models.TaskInfo{ID: task.ID, Cron: task.Cron, Payload: task.Payload}
		if next, ok := s.tasks.Next(task.ID); ok && !next.IsZero() {
			info.Next = &next
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	statuses := services.CheckAll(r.Context(), s.services...)

	resp := healthResponse{OK: true, Services: statuses}
	for _, st := range statuses {
		if !st.OK {
			resp.OK = false
		}
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// statusFor maps shared sentinels to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrJobNotFound), errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidPayload),
		errors.Is(err, shared.ErrUnknownPayload),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
