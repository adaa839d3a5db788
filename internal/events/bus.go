// Package events provides a centralized event bus for investigation runs.
// It implements pub/sub with bounded buffers; slow subscribers drop events
// rather than blocking the orchestrator.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	Timestamp() time.Time
	RunID() string
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type string    `json:"type"`
	Time time.Time `json:"timestamp"`
	Run  string    `json:"run_id"`
}

func (e BaseEvent) EventType() string    { return e.Type }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) RunID() string        { return e.Run }

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType, runID string) BaseEvent {
	return BaseEvent{Type: eventType, Time: time.Now(), Run: runID}
}

type subscriber struct {
	ch    chan Event
	types map[string]bool // empty means all types
}

func (s *subscriber) wants(eventType string) bool {
	return len(s.types) == 0 || s.types[eventType]
}

// Bus provides pub/sub with per-subscriber buffering.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[<-chan Event]*subscriber
	bufferSize  int
	dropped     int64
	closed      bool
}

// NewBus creates a new Bus with the specified buffer size per subscriber.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{
		subscribers: make(map[<-chan Event]*subscriber),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription for specific event types.
// If no types are specified, the subscriber receives all events.
func (b *Bus) Subscribe(types ...string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{
		ch:    make(chan Event, b.bufferSize),
		types: make(map[string]bool, len(types)),
	}
	for _, t := range types {
		sub.types[t] = true
	}

	var ch <-chan Event = sub.ch
	if !b.closed {
		b.subscribers[ch] = sub
	} else {
		close(sub.ch)
	}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(sub.ch)
	}
}

// Publish delivers an event to all matching subscribers without blocking.
// Events to full subscriber buffers are counted as dropped.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subscribers {
		if !sub.wants(e.EventType()) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			atomic.AddInt64(&b.dropped, 1)
		}
	}
}

// Dropped returns the number of events dropped due to full buffers.
func (b *Bus) Dropped() int64 {
	return atomic.LoadInt64(&b.dropped)
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch, sub := range b.subscribers {
		delete(b.subscribers, ch)
		close(sub.ch)
	}
}
