package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

type InMemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	dropped     atomic.Int64
	log         *slog.Logger
}

func NewBus(log *slog.Logger) *InMemoryBus {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryBus{
		subscribers: make(map[string]chan Event),
		log:         log,
	}
}

// New builds an event with a fresh id and timestamp.
func New(t Type, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func (b *InMemoryBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.subscribers) == 0 {
		b.log.Debug("notification not delivered, no listener", "type", e.Type)
		return
	}
	for id, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
			b.log.Debug("notification dropped", "type", e.Type, "subscriber", id)
		}
	}
}

func (b *InMemoryBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, exists := b.subscribers[id]; exists {
			close(ch)
			delete(b.subscribers, id)
		}
	}

	return ch, unsubscribe
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *InMemoryBus) Dropped() int64 {
	return b.dropped.Load()
}
