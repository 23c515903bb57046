package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512
)

// streamClient pushes status updates to one websocket connection. updates
// signals that a new snapshot was published.
type streamClient struct {
	conn    *websocket.Conn
	updates <-chan dashboard.Snapshot
	status  func() dashboard.Status
	logger  *slog.Logger
}

// streamHandler upgrades to a websocket and pushes the status view on every
// state transition, starting with the current one.
func (api *RestAPI) streamHandler(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	conn, err := api.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered with an HTTP error.
		logging.LogError(logger, "websocket upgrade failed", err)
		return
	}

	updates, unsubscribe := api.Dashboard.Subscribe()
	defer unsubscribe()

	client := &streamClient{
		conn:    conn,
		updates: updates,
		status:  api.Dashboard.Status,
		logger:  logger,
	}

	logging.LogOperation(logger, "stream_opened")
	done := make(chan struct{})
	go client.readPump(done)
	client.writePump(done)
	logging.LogOperation(logger, "stream_closed")
}

// readPump drains the connection so pongs and close frames are processed.
// It closes done when the peer goes away.
func (c *streamClient) readPump(done chan<- struct{}) {
	defer close(done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.LogError(c.logger, "stream read failed", err)
			}
			return
		}
	}
}

func (c *streamClient) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		logging.SafeCloseWithLogging(c.conn, c.logger, "websocket_connection")
	}()

	if err := c.writeStatus(); err != nil {
		return
	}

	for {
		select {
		// The update only wakes the pump. The message is built from the live
		// Status, which also carries the refreshing flag a Snapshot lacks.
		case _, ok := <-c.updates:
			if !ok {
				// Shutting down.
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := c.writeStatus(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *streamClient) writeStatus() error {
	message, err := json.Marshal(models.NewStatusEntry(c.status()))
	if err != nil {
		logging.LogError(c.logger, "failed to encode stream status", err)
		return err
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}
