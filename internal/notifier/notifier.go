// Package notifier forwards bus events to the configured sinks.
//
// Every event is offered to every sink concurrently. A sink that fails is logged with its
// notifier id and never affects the others or the job that produced the event.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// Store lists configured notifiers. Implemented by repositories.NotifierRepository.
type Store interface {
	List(ctx context.Context) ([]models.Notifier, error)
}

// Sink delivers events for one kind of notifier.
type Sink interface {
	Notify(ctx context.Context, params models.NotifierParams, event models.Event) error
}

// Service dispatches events to sinks by notifier type.
type Service struct {
	store  Store
	sinks  map[models.NotifierType]Sink
	logger *log.Logger
}

// NewService creates a Service with the given sinks.
func NewService(store Store, sinks map[models.NotifierType]Sink, logger *log.Logger) *Service {
	return &Service{store: store, sinks: sinks, logger: logger}
}

// Run handles events from sub until ctx is done or the subscription closes.
func (s *Service) Run(ctx context.Context, sub *events.Subscription) error {
	for {
		event, err := sub.Recv(ctx)
		if err != nil {
			if errors.Is(err, events.ErrClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		s.Dispatch(ctx, event)
	}
}

// Dispatch sends event to every notifier and waits for all of them.
func (s *Service) Dispatch(ctx context.Context, event models.Event) {
	notifiers, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to load notifiers", "error", err)
		return
	}

	var wg conc.WaitGroup
	for _, n := range notifiers {
		wg.Go(func() {
			if err := s.notify(ctx, n, event); err != nil {
				s.logger.Error("notifier failed", "notifier", n.ID, "event", event.Type(), "error", err)
			}
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		s.logger.Error("notifier panicked", "event", event.Type(), "error", recovered.AsError())
	}
}

func (s *Service) notify(ctx context.Context, n models.Notifier, event models.Event) error {
	sink, ok := s.sinks[n.Params.Type()]
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrUnknownNotifier, n.Params.Type())
	}
	return sink.Notify(ctx, n.Params, event)
}
