// Client for a running singarr server
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/desertthunder/singarr/internal/models"
)

// ServerClient talks to the HTTP API and event socket of a singarr server.
type ServerClient struct {
	api     *APIClient
	baseURL string
}

// NewServerClient creates a client for the server at baseURL, e.g. http://localhost:8080.
func NewServerClient(baseURL string) *ServerClient {
	return &ServerClient{
		api:     NewAPIClient(APIOptions{Name: "singarr", BaseURL: baseURL, Timeout: 10 * time.Second, RateLimit: 50}),
		baseURL: baseURL,
	}
}

// ServerURL turns a listen address such as ":8080" into a URL a client can dial.
func ServerURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func (c *ServerClient) Name() string { return "singarr" }

// Ping checks the server health endpoint. Degraded upstreams still count as reachable.
func (c *ServerClient) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

// Health returns the upstream statuses the server reports.
func (c *ServerClient) Health(ctx context.Context) ([]Status, error) {
	req, err := c.api.Request(ctx)
	if err != nil {
		return nil, err
	}

	var body struct {
		Services []Status `json:"services"`
	}
	endpoint := URL(c.baseURL, "healthz")
	// a degraded server answers 503, which resty decodes into the error target
	resp, err := req.SetResult(&body).SetError(&body).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("singarr: %w", err)
	}
	if resp.StatusCode() != http.StatusServiceUnavailable {
		if err := checkResponse(c.Name(), endpoint, resp); err != nil {
			return nil, err
		}
	}
	return body.Services, nil
}

// Enqueue submits payload and returns the pending job.
func (c *ServerClient) Enqueue(ctx context.Context, payload models.Payload) (models.Job, error) {
	data, err := models.MarshalPayload(payload)
	if err != nil {
		return models.Job{}, err
	}

	var job models.Job
	return job, c.api.PostJSON(ctx, "jobs", data, &job)
}

// Find returns the job with id.
func (c *ServerClient) Find(ctx context.Context, id int64) (models.Job, error) {
	var job models.Job
	return job, c.api.GetJSON(ctx, "jobs/"+strconv.FormatInt(id, 10), nil, &job)
}

// List returns jobs matching filter, newest first.
func (c *ServerClient) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	query := url.Values{}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	jobs := []models.Job{}
	return jobs, c.api.GetJSON(ctx, "jobs", query, &jobs)
}

// Tasks returns the recurring tasks with their next fire time.
func (c *ServerClient) Tasks(ctx context.Context) ([]models.TaskInfo, error) {
	tasks := []models.TaskInfo{}
	return tasks, c.api.GetJSON(ctx, "tasks", nil, &tasks)
}

// Subscribe opens the event socket. Close the returned stream when done.
func (c *ServerClient) Subscribe(ctx context.Context) (*EventStream, error) {
	socketURL := "ws" + strings.TrimPrefix(URL(c.baseURL, "socket"), "http")
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("singarr: failed to open event socket: %w", err)
	}
	return &EventStream{conn: conn}, nil
}

// EventStream reads events from the server socket.
type EventStream struct {
	conn *websocket.Conn
}

// Next blocks until the next event arrives. Events of an unknown type are skipped.
func (s *EventStream) Next() (models.Event, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		event, err := models.UnmarshalEvent(data)
		if err != nil {
			continue
		}
		return event, nil
	}
}

func (s *EventStream) Close() error {
	return s.conn.Close()
}
