package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/scheduler"
	"github.com/desertthunder/singarr/internal/services"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows the patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// JobService is the job API used by the handlers. Implemented by jobs.Service.
type JobService interface {
	Enqueue(ctx context.Context, payload models.Payload) (models.Job, error)
	Find(ctx context.Context, id int64) (models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
}

// TaskLister lists scheduled tasks. Implemented by scheduler.Scheduler.
type TaskLister interface {
	List() []scheduler.ScheduledTask
	Next(id string) (time.Time, bool)
}

// Deps bundles what the server exposes.
type Deps struct {
	Jobs     JobService
	Tasks    TaskLister
	Bus      *events.Bus
	Services []services.Service
	Logger   *log.Logger
}

// Server serves the JSON API and the event socket.
type Server struct {
	router   *BasicRouter
	jobs     JobService
	tasks    TaskLister
	bus      *events.Bus
	services []services.Service
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New creates a Server with every route registered.
func New(deps Deps) *Server {
	s := &Server{
		router:   NewBasicRouter(),
		jobs:     deps.Jobs,
		tasks:    deps.Tasks,
		bus:      deps.Bus,
		services: deps.Services,
		logger:   deps.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	s.router.Use(Recover(s.logger), Logging(s.logger))
	s.router.Handle(http.MethodGet, "/jobs", http.HandlerFunc(s.listJobs))
	s.router.Handle(http.MethodPost, "/jobs", http.HandlerFunc(s.createJob))
	s.router.Handle(http.MethodGet, "/jobs/{id}", http.HandlerFunc(s.getJob))
	s.router.Handle(http.MethodGet, "/tasks", http.HandlerFunc(s.listTasks))
	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(s.health))
	s.router.Handler(&socketHandler{server: s})
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
