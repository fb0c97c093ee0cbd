package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/handlers"
	comment_handler "github.com/gatat123/studioo-backend/internal/handlers/comment-handler"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/state"
)

func CommentRouter(r chi.Router, state *state.AppState) {
	commentHandler := comment_handler.NewCommentHandler(state)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthWithAutoRefresh(state.JwtSecret.Private, state.JwtSecret.Public, state.Redis))

		r.Post("/api/v1/comments", handlers.WrapHandler(commentHandler.CreateComment))
		r.Get("/api/v1/comments/{targetKind}/{targetId}", handlers.WrapHandler(commentHandler.ListComments))

		r.Post("/api/v1/annotations", handlers.WrapHandler(commentHandler.CreateAnnotation))
		r.Get("/api/v1/images/{imageId}/annotations", handlers.WrapHandler(commentHandler.ListAnnotations))
	})
}
