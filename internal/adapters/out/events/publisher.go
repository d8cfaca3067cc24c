// Package events implements ports.EventPublisher by fanning committed aggregates out to
// the in-process change feed and, for notifications, to the NATS event stream.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lotflow/internal/adapters/out/natsbus"
	"lotflow/internal/changefeed"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
)

// Feed receives change feed entries. *changefeed.Broker satisfies it.
type Feed interface {
	Publish(change changefeed.Change)
}

// Stream sends raw messages to an external subject. *natsbus.Publisher satisfies it.
type Stream interface {
	Publish(ctx context.Context, subject string, msg []byte) error
}

// Publisher is safe for concurrent use as long as feed and stream are.
type Publisher struct {
	feed   Feed
	stream Stream
	now    func() time.Time
}

// NewPublisher creates a publisher. stream may be nil when no NATS server is configured.
func NewPublisher(feed Feed, stream Stream) *Publisher {
	return &Publisher{feed: feed, stream: stream, now: time.Now}
}

func (p *Publisher) UnitChanged(_ context.Context, aggregate *unit.ProductionUnit) error {
	return p.toFeed(changefeed.CollectionUnits, aggregate.LotNumber(), NewUnitDocument(aggregate))
}

func (p *Publisher) OrderChanged(_ context.Context, aggregate *order.Order) error {
	return p.toFeed(changefeed.CollectionOrders, aggregate.ID(), NewOrderDocument(aggregate))
}

// NotificationRaised publishes to the feed and to lots.notifications.<kind>. A stream
// failure is returned after the feed entry was published.
func (p *Publisher) NotificationRaised(ctx context.Context, n *notification.Notification) error {
	doc := NewNotificationDocument(n)
	feedErr := p.toFeed(changefeed.CollectionNotifications, doc.ID, doc)

	if p.stream == nil {
		return feedErr
	}

	msg, err := json.Marshal(doc)
	if err != nil {
		return errors.Join(feedErr, err)
	}
	return errors.Join(feedErr, p.stream.Publish(ctx, natsbus.Subject("notifications", doc.Kind), msg))
}

func (p *Publisher) toFeed(collection changefeed.Collection, key string, doc any) error {
	if p.feed == nil {
		return nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	p.feed.Publish(changefeed.Change{
		Collection: collection,
		Key:        key,
		Document:   raw,
		At:         p.now().UTC(),
	})
	return nil
}
