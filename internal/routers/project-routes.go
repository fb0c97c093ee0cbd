package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/handlers"
	project_handler "github.com/gatat123/studioo-backend/internal/handlers/project-handler"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/state"
)

func ProjectRouter(r chi.Router, state *state.AppState) {
	projectHandler := project_handler.NewProjectHandler(state)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthWithAutoRefresh(state.JwtSecret.Private, state.JwtSecret.Public, state.Redis))

		r.Route("/api/v1/projects", func(r chi.Router) {
			r.Post("/", handlers.WrapHandler(projectHandler.CreateProject))
			r.Get("/", handlers.WrapHandler(projectHandler.ListProjects))

			r.Route("/{projectId}", func(r chi.Router) {
				r.Get("/", handlers.WrapHandler(projectHandler.GetProject))
				r.Patch("/", handlers.WrapHandler(projectHandler.UpdateProject))
				r.Post("/participants", handlers.WrapHandler(projectHandler.InviteParticipant))
				r.Get("/participants", handlers.WrapHandler(projectHandler.ListParticipants))
				r.Post("/scenes", handlers.WrapHandler(projectHandler.CreateScene))
				r.Get("/scenes", handlers.WrapHandler(projectHandler.ListScenes))
			})
		})

		r.Route("/api/v1/scenes/{sceneId}/images", func(r chi.Router) {
			r.Post("/", handlers.WrapHandler(projectHandler.RegisterImage))
			r.Get("/", handlers.WrapHandler(projectHandler.ListImages))
		})
	})
}
