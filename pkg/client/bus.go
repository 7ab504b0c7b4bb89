package client

import (
	"log"
	"sync"
)

// Handler receives one published payload.
type Handler func(payload any)

// EventBus is a synchronous topic bus. Handlers run on the publisher's
// goroutine in registration order; a panicking handler is logged and
// the remaining handlers still run.
type EventBus struct {
	mu     sync.Mutex
	nextID int
	topics map[string][]subscription
}

type subscription struct {
	id      int
	handler Handler
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{topics: map[string][]subscription{}}
}

// Subscribe registers a handler and returns its dispose func. Disposing
// more than once is harmless; removing the last handler frees the topic
// entry.
func (b *EventBus) Subscribe(topic string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.topics[topic]
		for i, sub := range subs {
			if sub.id == id {
				b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.topics[topic]) == 0 {
			delete(b.topics, topic)
		}
	}
}

// Publish runs every subscribed handler synchronously. Publishing to a
// topic with no subscribers is a no-op.
func (b *EventBus) Publish(topic string, payload any) {
	b.mu.Lock()
	subs := make([]subscription, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	for _, sub := range subs {
		b.invoke(topic, sub, payload)
	}
}

func (b *EventBus) invoke(topic string, sub subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler panic topic=%s: %v", topic, r)
		}
	}()
	sub.handler(payload)
}
