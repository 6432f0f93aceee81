package core

import (
	"fmt"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// EventType represents the kind of change in the collection.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
	EventResync  EventType = "RESYNC"
	EventOnline  EventType = "ONLINE"
	EventOffline EventType = "OFFLINE"
)

// Event represents a change in the canonical collection or in connectivity.
// ID is the note id for note events and empty for lifecycle events.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle Event contract).
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

type subscriber struct {
	pattern string
	ch      chan Event
}

// broker fans engine events out to pattern subscribers.
// Publishing never blocks: a subscriber with a full buffer misses the event,
// the same contract watchers already live with.
type broker struct {
	mu     sync.Mutex
	subs   []*subscriber
	buffer int
}

func newBroker(buffer int) *broker {
	if buffer <= 0 {
		buffer = 100
	}
	return &broker{buffer: buffer}
}

// subscribe registers a doublestar pattern matched against event note ids.
// Lifecycle events (empty ID) are always delivered.
func (b *broker) subscribe(pattern string) (<-chan Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{pattern: pattern, ch: make(chan Event, b.buffer)}
	b.subs = append(b.subs, sub)
	return sub.ch, nil
}

func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if e.ID != "" {
			match, err := doublestar.Match(sub.pattern, e.ID)
			if err != nil || !match {
				continue
			}
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}
