package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gatat123/studioo-backend/internal/collab"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
)

var errSendBufferFull = &SendError{Message: "send buffer full"}

type SendError struct {
	Message string
}

func (e *SendError) Error() string { return e.Message }

// Identity is what the connection authenticator resolved for this socket.
// Display attributes ride along so the collab core never re-fetches them.
type Identity struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// Client is one live connection. It implements collab.Conn and drives the
// collab manager from its read pump.
type Client struct {
	ConnID   string
	Identity Identity

	conn    *websocket.Conn
	send    chan []byte
	manager *collab.Manager

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	lastSeenMu sync.RWMutex
	lastSeen   time.Time

	onClose func(*Client)
}

func (c *Client) ID() string          { return c.ConnID }
func (c *Client) UserID() string      { return c.Identity.UserID }
func (c *Client) DisplayName() string { return c.Identity.DisplayName }
func (c *Client) AvatarURL() string   { return c.Identity.AvatarURL }

// TrySend never blocks; a full buffer means the consumer is too slow and
// the event is dropped for this connection.
func (c *Client) TrySend(data []byte) error {
	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return &SendError{Message: "connection closing"}
	default:
		return errSendBufferFull
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close()
	})
}

func (c *Client) GetLastSeen() time.Time {
	c.lastSeenMu.RLock()
	defer c.lastSeenMu.RUnlock()
	return c.lastSeen
}

func (c *Client) touch() {
	c.lastSeenMu.Lock()
	c.lastSeen = time.Now()
	c.lastSeenMu.Unlock()
}

// writePump: take data from c.send and write to the socket + ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump: parse inbound collab events and hand them to the manager. The
// deferred LeaveAllRooms is the deterministic disconnect path; the sweepers
// only catch what this misses.
func (c *Client) readPump() {
	defer func() {
		c.manager.LeaveAllRooms(c)
		if c.onClose != nil {
			c.onClose(c)
		}
		c.Close()
		log.Info().Str("connID", c.ConnID).Str("userID", c.Identity.UserID).Msg("ws: connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch()
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connID", c.ConnID).Msg("ws: unexpected close")
			}
			return
		}
		c.touch()
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	var in IncomingEvent
	if err := json.Unmarshal(raw, &in); err != nil {
		c.sendError("malformed event", "body")
		return
	}

	switch in.Type {
	case collab.EventJoinRoom:
		var req JoinRoomPayload
		if err := json.Unmarshal(in.Data, &req); err != nil || req.ResourceID == "" {
			c.sendError("kind and resourceId are required", "data")
			return
		}
		snapshot, err := c.manager.JoinRoom(c.ctx, c, collab.RoomKind(req.Kind), req.ResourceID)
		if err != nil {
			c.sendError(err.Error(), "kind")
			return
		}
		_ = c.TrySend(collab.EncodeEvent(collab.EventRoomJoined, snapshot))

	case collab.EventLeaveRoom:
		var req LeaveRoomPayload
		if err := json.Unmarshal(in.Data, &req); err != nil || req.RoomID == "" {
			c.sendError("roomId is required", "data")
			return
		}
		c.manager.LeaveRoom(c, req.RoomID)

	case collab.EventUpdateStatus:
		var req UpdateStatusPayload
		if err := json.Unmarshal(in.Data, &req); err != nil || req.RoomID == "" {
			c.sendError("roomId and status are required", "data")
			return
		}
		if err := c.manager.UpdateStatus(c, req.RoomID, collab.Status(req.Status)); err != nil {
			c.sendError(err.Error(), "status")
		}

	case collab.EventUpdatePresence:
		var req UpdatePresencePayload
		if err := json.Unmarshal(in.Data, &req); err != nil || req.RoomID == "" {
			c.sendError("roomId and presence are required", "data")
			return
		}
		if err := c.manager.UpdatePresence(c, req.RoomID, req.Presence); err != nil {
			c.sendError(err.Error(), "presence")
		}

	default:
		c.sendError("unknown event type", "type")
	}
}

func (c *Client) sendError(message, field string) {
	_ = c.TrySend(collab.EncodeEvent(collab.EventError, collab.ErrorPayload{Message: message, Field: field}))
}
