package collab_handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/collab"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/internal/handlers"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/internal/websocket"
)

type CollabHandler struct {
	Manager   *collab.Manager
	WsHandler *websocket.WebSocketHandler
}

func NewCollabHandler(manager *collab.Manager, wsHandler *websocket.WebSocketHandler) *CollabHandler {
	return &CollabHandler{
		Manager:   manager,
		WsHandler: wsHandler,
	}
}

func (h *CollabHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "collab-server",
	})
}

func (h *CollabHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	stats := h.Manager.Stats()
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("get collab stats", stats, reqID))
	return nil
}

func (h *CollabHandler) HandleGetRoomRoster(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	kind := chi.URLParam(r, "kind")
	resourceId := chi.URLParam(r, "resourceId")

	if !collab.RoomKind(kind).Valid() {
		return app_error.NewAppError(http.StatusBadRequest, "unknown room kind", "kind")
	}

	roomID := collab.RoomID(collab.RoomKind(kind), resourceId)
	roster, ok := h.Manager.RoomRoster(roomID)
	if !ok {
		return app_error.NewAppError(http.StatusNotFound, "room not found", "room-id")
	}

	reqID, rok := r.Context().Value(middleware.RequestIdKey).(string)
	if !rok {
		reqID = "unknown"
	}

	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("get room roster", roster, reqID))
	return nil
}

func (h *CollabHandler) HandleGetConnections(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("get connection count", map[string]int64{
		"connections": h.WsHandler.ConnectionCount(),
	}, reqID))
	return nil
}
