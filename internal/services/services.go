package services

import (
	"context"
)

// Service is an upstream singarr depends on.
type Service interface {
	// Name returns the name of the service (e.g., "Lidarr", "TheAudioDB")
	Name() string

	// Ping reports whether the service is reachable.
	Ping(ctx context.Context) error
}

// Status is the result of pinging a [Service].
type Status struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CheckAll pings every service in order.
func CheckAll(ctx context.Context, services ...Service) []Status {
	statuses := make([]Status, 0, len(services))
	for _, s := range services {
		status := Status{Name: s.Name(), OK: true}
		if err := s.Ping(ctx); err != nil {
			status.OK = false
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
