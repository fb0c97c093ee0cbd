package websocket

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gatat123/studioo-backend/internal/collab"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AuthenticatorFunc resolves an upgrade request to a user identity before
// any room operation is permitted.
type AuthenticatorFunc func(r *http.Request) (*Identity, error)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

type WebSocketHandler struct {
	manager       *collab.Manager
	authenticator AuthenticatorFunc

	MaxConnections   int
	ConnectionsPerIP int

	connCount int64

	ipMu      sync.Mutex
	perIPConn map[string]int
}

func NewWebSocketHandler(manager *collab.Manager, auth AuthenticatorFunc) *WebSocketHandler {
	return &WebSocketHandler{
		manager:          manager,
		authenticator:    auth,
		MaxConnections:   10000,
		ConnectionsPerIP: 20,
		perIPConn:        make(map[string]int),
	}
}

func (h *WebSocketHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt64(&h.connCount) >= int64(h.MaxConnections) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	identity, err := h.authenticateConnection(r)
	if err != nil {
		log.Warn().Err(err).Msg("ws: authentication failed")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	clientIP := h.getClientIP(r)
	if !h.acquireIPSlot(clientIP) {
		http.Error(w, "too many connections from this address", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.releaseIPSlot(clientIP)
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		ConnID:   uuid.New().String(),
		Identity: *identity,
		conn:     conn,
		send:     make(chan []byte, 256),
		manager:  h.manager,
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: time.Now(),
	}
	client.onClose = func(*Client) {
		atomic.AddInt64(&h.connCount, -1)
		h.releaseIPSlot(clientIP)
	}

	atomic.AddInt64(&h.connCount, 1)
	client.Start()

	log.Info().Str("connID", client.ConnID).Str("userID", identity.UserID).Str("ip", clientIP).Msg("ws: connection established")
}

// ConnectionCount reports how many sockets are currently open.
func (h *WebSocketHandler) ConnectionCount() int64 {
	return atomic.LoadInt64(&h.connCount)
}

func (h *WebSocketHandler) acquireIPSlot(ip string) bool {
	h.ipMu.Lock()
	defer h.ipMu.Unlock()
	if h.perIPConn[ip] >= h.ConnectionsPerIP {
		return false
	}
	h.perIPConn[ip]++
	return true
}

func (h *WebSocketHandler) releaseIPSlot(ip string) {
	h.ipMu.Lock()
	defer h.ipMu.Unlock()
	h.perIPConn[ip]--
	if h.perIPConn[ip] <= 0 {
		delete(h.perIPConn, ip)
	}
}
