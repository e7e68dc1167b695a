package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	sendBufferSize = 16
)

// client is one authenticated websocket connection. Outbound events pass
// through the send channel, so a single writer goroutine preserves the order
// the state machine produced them in.
type client struct {
	playerID string
	conn     *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func newClient(playerID string, conn *websocket.Conn) *client {
	return &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
}

// enqueue marshals and queues one event; a client too slow to drain its
// buffer loses the event rather than stalling the room. Events queued after
// shutdown are dropped; the channel send and the close are serialized by the
// mutex so a late broadcast never hits a closed channel.
func (that *client) enqueue(logger *slog.Logger, action string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	message, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		logger.Debug("dropping event for disconnected client", "playerID", that.playerID, "action", action)
		return
	}

	select {
	case that.send <- message:
	default:
		logger.Warn("dropping event for slow client", "playerID", that.playerID, "action", action)
	}
}

// shutdown closes the send channel exactly once, telling the writePump to
// finish. Safe to call from the reader side while broadcasts are in flight.
func (that *client) shutdown() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

func (that *client) writePump(logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("write failed", "playerID", that.playerID, "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
