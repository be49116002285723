package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSignedIn         EventType = "SIGNED_IN"
	EventSignedOut        EventType = "SIGNED_OUT"
	EventPasswordRecovery EventType = "PASSWORD_RECOVERY"
	EventUserUpdated      EventType = "USER_UPDATED"
)

// Event is a session change. SessionID is set for sign-in and sign-out.
type Event struct {
	Type      EventType `json:"type"`
	UserID    uuid.UUID `json:"userId"`
	SessionID string    `json:"sessionId,omitempty"`
	At        time.Time `json:"at"`
}

// Bus carries session changes between service instances.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context) (Subscription, error)
}

type Subscription interface {
	Events() <-chan Event
	Close() error
}

// LocalBus delivers events to subscribers in the same process.
type LocalBus struct {
	mu   sync.Mutex
	subs map[*localSub]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[*localSub]struct{})}
}

func (b *LocalBus) Publish(ctx context.Context, ev Event) error {
	b.mu.Lock()
	subs := make([]*localSub, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context) (Subscription, error) {
	s := &localSub{
		bus:  b,
		ch:   make(chan Event, 64),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s, nil
}

type localSub struct {
	bus  *LocalBus
	ch   chan Event
	done chan struct{}
	once sync.Once
}

func (s *localSub) Events() <-chan Event { return s.ch }

// Close stops delivery. The events channel is left open for publishers already past the lock,
// so readers should select on their own shutdown signal as well.
func (s *localSub) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.done)
	})
	return nil
}
