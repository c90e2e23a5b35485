// package events implements the in-process event bus.
//
// Every subscriber owns a fixed-size ring buffer. [Bus.Send] never blocks: when a
// subscriber falls behind, its oldest buffered events are overwritten and counted in
// [Subscription.Dropped]. Subscribers only see events sent after they subscribed.
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/desertthunder/singarr/internal/models"
)

// DefaultCapacity is the per-subscriber backlog used by [NewBus].
const DefaultCapacity = 32

// ErrClosed is returned by [Subscription.Recv] once the subscription is closed and drained.
var ErrClosed = errors.New("subscription closed")

// Sender is the producer side of the bus.
type Sender interface {
	Send(event models.Event)
}

// Bus broadcasts events to every live subscription.
type Bus struct {
	mu       sync.RWMutex
	capacity int
	subs     map[*Subscription]struct{}
}

// NewBus creates a bus whose subscriptions buffer up to [DefaultCapacity] events.
func NewBus() *Bus {
	return NewBusWithCapacity(DefaultCapacity)
}

// NewBusWithCapacity creates a bus whose subscriptions buffer up to capacity events.
func NewBusWithCapacity(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{capacity: capacity, subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscription starting from now.
func (b *Bus) Subscribe() *Subscription {
	s := &Subscription{
		bus:    b,
		buf:    make([]models.Event, b.capacity),
		notify: make(chan struct{}, 1),
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Send delivers event to every subscription without blocking.
func (b *Bus) Send(event models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		s.push(event)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

// Subscription is the receive side of the bus for one consumer.
type Subscription struct {
	bus *Bus

	mu      sync.Mutex
	buf     []models.Event
	head    int
	size    int
	dropped uint64
	closed  bool
	notify  chan struct{}
}

func (s *Subscription) push(event models.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	tail := (s.head + s.size) % len(s.buf)
	s.buf[tail] = event
	if s.size == len(s.buf) {
		s.head = (s.head + 1) % len(s.buf)
		s.dropped++
	} else {
		s.size++
	}
	s.mu.Unlock()

	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// TryRecv pops the oldest buffered event without waiting.
func (s *Subscription) TryRecv() (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size == 0 {
		return nil, false
	}
	event := s.buf[s.head]
	s.buf[s.head] = nil
	s.head = (s.head + 1) % len(s.buf)
	s.size--
	return event, true
}

// Recv waits for the next event, the end of ctx, or the subscription being closed.
// Events buffered before Close are still returned.
func (s *Subscription) Recv(ctx context.Context) (models.Event, error) {
	for {
		if event, ok := s.TryRecv(); ok {
			return event, nil
		}

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.notify:
		}
	}
}

// C is signalled whenever the subscription may have an event to read with [Subscription.TryRecv].
func (s *Subscription) C() <-chan struct{} {
	return s.notify
}

// Dropped returns how many events were overwritten before this subscriber read them.
func (s *Subscription) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Len returns the number of buffered events.
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.bus.remove(s)

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}
