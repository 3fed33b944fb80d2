package bus

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Topic identifies a class of notifications on the bus.
type Topic string

// Notification is the generic envelope carried by the bus. Payload stays `any`
// so different payload types can share one bus.
type Notification struct {
	ctx       context.Context
	Topic     Topic
	Timestamp time.Time
	Payload   any
}

func NewNotification(ctx context.Context, topic Topic, payload any) Notification {
	return Notification{
		ctx:       ctx,
		Topic:     topic,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// Context returns the context the notification was published with. Handlers
// should respect its cancellation.
func (n Notification) Context() context.Context {
	if n.ctx == nil {
		return context.Background()
	}
	return n.ctx
}

// TypedNotification is the envelope seen by typed handlers.
type TypedNotification[T any] struct {
	ctx       context.Context
	Topic     Topic
	Timestamp time.Time
	Payload   T
}

func (n TypedNotification[T]) Context() context.Context {
	if n.ctx == nil {
		return context.Background()
	}
	return n.ctx
}

type handler func(Notification) error

// Bus is a concurrency-safe synchronous dispatcher. Handlers run sequentially
// during Publish; a failing handler is logged and does not stop the others.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Topic]map[uint64]handler
	nextID      uint64
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[Topic]map[uint64]handler),
	}
}

// Subscribe registers a handler for the topic and returns an unsubscribe
// function that removes it.
func (b *Bus) Subscribe(topic Topic, h func(Notification) error) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID

	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[uint64]handler)
	}
	b.subscribers[topic][id] = handler(h)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if handlers := b.subscribers[topic]; handlers != nil {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subscribers, topic)
			}
		}
	}
}

// Publish delivers the notification to every subscriber of its topic.
func (b *Bus) Publish(n Notification) {
	b.mu.RLock()
	handlers := make([]handler, 0, len(b.subscribers[n.Topic]))
	for _, h := range b.subscribers[n.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(n); err != nil {
			log.Errorf("bus: handler for %s failed: %v", n.Topic, err)
		}
	}
}

// SubscribeTyped registers a handler expecting a specific payload type. It is
// a free function because Go methods cannot introduce type parameters. The
// wrapper only invokes the typed handler when the assertion succeeds.
func SubscribeTyped[T any](b *Bus, topic Topic, h func(TypedNotification[T]) error) (unsubscribe func()) {
	wrapper := func(n Notification) error {
		if n.Payload == nil {
			log.Debugf("bus: nil payload for topic %s, skipping typed handler", topic)
			return nil
		}
		payload, ok := n.Payload.(T)
		if !ok {
			log.Debugf("bus: payload type mismatch for %s: expected %T, got %T", topic, *new(T), n.Payload)
			return nil
		}
		typed := TypedNotification[T]{
			ctx:       n.ctx,
			Topic:     n.Topic,
			Timestamp: n.Timestamp,
			Payload:   payload,
		}
		return h(typed)
	}
	return b.Subscribe(topic, wrapper)
}
