package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/collab"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/internal/websocket"
	"github.com/gatat123/studioo-backend/state"
)

func NewRouter(state *state.AppState, manager *collab.Manager, wsHandler *websocket.WebSocketHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	r.Use(middleware.GetDeviceFingerprint)

	UserRouter(r, state)
	ProjectRouter(r, state)
	CommentRouter(r, state)
	TodoRouter(r, state)
	CollabRouter(r, manager, wsHandler)

	return r
}
