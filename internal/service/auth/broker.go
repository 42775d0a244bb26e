package auth

import (
	"sync"

	"dispatcherhub/internal/domain"
)

const subscriberBuffer = 8

// Broker fans session changes out to subscribers. A subscriber that falls
// behind misses changes instead of blocking the publisher.
type Broker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan domain.SessionChange
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan domain.SessionChange)}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; calling it again is a no-op.
func (b *Broker) Subscribe() (<-chan domain.SessionChange, func()) {
	ch := make(chan domain.SessionChange, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers c to every current subscriber.
func (b *Broker) Publish(c domain.SessionChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
