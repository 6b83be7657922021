package events

import (
	"sync"

	"github.com/pkg/errors"
)

// EventStore keeps the events of every table in the order they were emitted
type EventStore interface {
	Append(event Event) error
	LoadEvents(tableID string) ([]Event, error)
}

// InMemoryEventStore is a process-local EventStore
type InMemoryEventStore struct {
	mu     sync.RWMutex
	tables map[string][]Event
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{tables: make(map[string][]Event)}
}

// Append records an event under its table
func (s *InMemoryEventStore) Append(event Event) error {
	tableID, err := TableOf(event)
	if err != nil {
		return errors.Wrapf(err, "appending %s", event.Name())
	}

	s.mu.Lock()
	s.tables[tableID] = append(s.tables[tableID], event)
	s.mu.Unlock()
	return nil
}

// LoadEvents returns a copy of a table's log; unknown tables have none
func (s *InMemoryEventStore) LoadEvents(tableID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.tables[tableID]...), nil
}
