package audit

import (
	"context"
	"fmt"
	"sync"
)

// StorePublisher writes events straight to a Store. It is the default sink
// for single-process deployments and tests.
type StorePublisher struct {
	store Store
}

func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	return p.store.Append(ctx, stamp(event))
}

// ChannelPublisher hands events to a background worker through a buffered
// channel. Emission never blocks the business call; when the inbox is full
// the event is dropped and the error surfaces to the fail-open log path.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.inbox <- stamp(event):
		return nil
	default:
		return fmt.Errorf("trail inbox full, event dropped")
	}
}

// MemoryStore is an append-only in-memory event store.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out, nil
}
