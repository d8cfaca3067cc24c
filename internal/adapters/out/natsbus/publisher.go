// Package natsbus publishes lot events on NATS subjects for downstream systems.
package natsbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to every subject published by this service.
const SubjectPrefix = "lots"

// Subject builds "lots.<parts...>".
func Subject(parts ...string) string {
	subject := SubjectPrefix
	for _, p := range parts {
		subject += "." + p
	}
	return subject
}

// Publisher wraps one NATS connection.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewPublisher connects to url. The connection reconnects on its own; disconnects and
// reconnects are logged.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	logger = logger.With("component", "natsbus.Publisher")

	conn, err := nats.Connect(url,
		nats.Name("lotflow"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, logger: logger}, nil
}

// Publish sends msg on subject. NATS core publishing is fire-and-forget, so ctx only
// short-circuits a call made after cancellation.
func (p *Publisher) Publish(ctx context.Context, subject string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.conn.Publish(subject, msg)
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
