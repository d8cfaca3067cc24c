// Package changefeed fans committed state changes out to in-process subscribers such as
// dashboard websockets.
//
// Every subscriber owns a bounded buffer. A subscriber that falls behind loses changes
// instead of slowing down the publisher; the loss is visible through Dropped.
package changefeed

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"lotflow/internal/pkg/errs"
)

// Collection names a stream of changes.
type Collection string

const (
	CollectionUnits         Collection = "units"
	CollectionOrders        Collection = "orders"
	CollectionNotifications Collection = "notifications"
)

const DefaultBuffer = 64

var ErrBrokerIsClosed = errors.New("change feed broker is closed")

// ParseCollection accepts only the known collections.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case CollectionUnits, CollectionOrders, CollectionNotifications:
		return c, nil
	default:
		return "", errs.NewValueIsInvalidError("collection")
	}
}

// Change is one committed document. Key is the lot number, order id or notification id.
type Change struct {
	Collection Collection      `json:"collection"`
	Key        string          `json:"key"`
	Document   json.RawMessage `json:"document"`
	At         time.Time       `json:"at"`
}

// Subscription receives the changes of one collection on C until it is unsubscribed or
// the broker is closed, at which point C is closed.
type Subscription struct {
	C <-chan Change

	id         uint64
	collection Collection
	ch         chan Change
	dropped    atomic.Uint64
}

// Dropped returns how many changes were skipped because the buffer was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Subscription) Collection() Collection {
	return s.collection
}

// Broker is safe for concurrent use.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Collection]map[uint64]*Subscription
	closed bool

	onDrop func(Collection)
}

// NewBroker creates a broker. onDrop, when not nil, is called for every dropped change.
func NewBroker(onDrop func(Collection)) *Broker {
	return &Broker{
		subs:   make(map[Collection]map[uint64]*Subscription),
		onDrop: onDrop,
	}
}

// Subscribe registers a subscriber with a buffer of the given size. A buffer below one
// falls back to DefaultBuffer.
func (b *Broker) Subscribe(collection Collection, buffer int) (*Subscription, error) {
	if buffer < 1 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerIsClosed
	}

	b.nextID++
	ch := make(chan Change, buffer)
	sub := &Subscription{C: ch, id: b.nextID, collection: collection, ch: ch}

	if b.subs[collection] == nil {
		b.subs[collection] = make(map[uint64]*Subscription)
	}
	b.subs[collection][sub.id] = sub

	return sub, nil
}

// Unsubscribe removes the subscription and closes its channel. Calling it twice is safe.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.collection][sub.id]; !ok {
		return
	}
	delete(b.subs[sub.collection], sub.id)
	close(sub.ch)
}

// Publish delivers change to every subscriber of its collection without blocking.
func (b *Broker) Publish(change Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs[change.Collection] {
		select {
		case sub.ch <- change:
		default:
			sub.dropped.Add(1)
			if b.onDrop != nil {
				b.onDrop(change.Collection)
			}
		}
	}
}

// Subscribers returns the number of live subscriptions on collection.
func (b *Broker) Subscribers(collection Collection) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[collection])
}

// Close closes every subscription. Later Subscribe calls fail and Publish does nothing.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, subs := range b.subs {
		for id, sub := range subs {
			close(sub.ch)
			delete(subs, id)
		}
	}
}
