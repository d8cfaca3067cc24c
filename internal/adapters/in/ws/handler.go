// Package ws streams change feed collections to dashboards over websockets.
package ws

import (
	"log/slog"
	"net/http"
	"time"

	"lotflow/internal/changefeed"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber is the part of *changefeed.Broker the handler needs.
type Subscriber interface {
	Subscribe(collection changefeed.Collection, buffer int) (*changefeed.Subscription, error)
	Unsubscribe(sub *changefeed.Subscription)
}

// Handler upgrades GET /ws/:collection and writes every change of the collection as a
// JSON text frame. The stream is one-way; client frames are read only to notice closes.
type Handler struct {
	feed     Subscriber
	buffer   int
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(feed Subscriber, buffer int, logger *slog.Logger) *Handler {
	return &Handler{
		feed:   feed,
		buffer: buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		logger: logger.With("component", "ws.Handler"),
	}
}

// Register mounts the handler on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/ws/:collection", h.Stream)
}

func (h *Handler) Stream(c echo.Context) error {
	collection, err := changefeed.ParseCollection(c.Param("collection"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown collection")
	}

	sub, err := h.feed.Subscribe(collection, h.buffer)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	defer h.feed.Unsubscribe(sub)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	h.logger.Debug("websocket subscribed", "collection", collection)
	h.writeLoop(conn, sub, closed)
	h.logger.Debug("websocket closed", "collection", collection, "dropped", sub.Dropped())
	return nil
}

func (h *Handler) writeLoop(conn *websocket.Conn, sub *changefeed.Subscription, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case change, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(change); err != nil {
				h.logger.Warn("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
