package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/collab"
	"github.com/gatat123/studioo-backend/internal/handlers"
	collab_handler "github.com/gatat123/studioo-backend/internal/handlers/collab-handler"
	"github.com/gatat123/studioo-backend/internal/websocket"
)

func CollabRouter(r chi.Router, manager *collab.Manager, wsHandler *websocket.WebSocketHandler) {
	collabHandler := collab_handler.NewCollabHandler(manager, wsHandler)

	r.Get("/ws", wsHandler.HandleWS)

	r.Route("/api/v1/collab", func(r chi.Router) {
		r.Get("/health", collabHandler.HandleHealth)
		r.Get("/stats", handlers.WrapHandler(collabHandler.HandleGetStats))
		r.Get("/connections", handlers.WrapHandler(collabHandler.HandleGetConnections))
		r.Get("/rooms/{kind}/{resourceId}/roster", handlers.WrapHandler(collabHandler.HandleGetRoomRoster))
	})
}
