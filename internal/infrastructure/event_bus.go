package infrastructure

import (
	"sync"

	"go.uber.org/zap"
)

// Event is a named payload as delivered to subscribers
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// EventBus implements domain.EventEmitter by fanning events out to
// subscribers. A subscriber whose buffer is full misses the event.
type EventBus struct {
	logger *zap.Logger
	buffer int

	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

// NewEventBus creates a bus whose subscriber channels hold buffer events
func NewEventBus(logger *zap.Logger, buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		logger: logger,
		buffer: buffer,
		subs:   make(map[int]chan Event),
	}
}

// Emit implements domain.EventEmitter
func (b *EventBus) Emit(name string, payload interface{}) {
	b.logger.Debug("Event emitted", zap.String("event", name), zap.Any("payload", payload))

	ev := Event{Name: name, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Debug("Subscriber buffer full, event dropped",
				zap.Int("subscriber", id),
				zap.String("event", name))
		}
	}
}

// Subscribe registers a subscriber. The returned func unregisters it and
// closes the channel.
func (b *EventBus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// SubscriberCount returns the number of active subscribers
func (b *EventBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
