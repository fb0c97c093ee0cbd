package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/handlers"
	user_handler "github.com/gatat123/studioo-backend/internal/handlers/user-handler"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/state"
)

func UserRouter(r chi.Router, state *state.AppState) {
	userHandler := user_handler.NewUserHandler(state)

	r.Post("/api/v1/users", handlers.WrapHandler(userHandler.CreateUser))
	r.Post("/api/v1/users/login", handlers.WrapHandler(userHandler.LoginUser))

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthWithAutoRefresh(state.JwtSecret.Private, state.JwtSecret.Public, state.Redis))
		r.Post("/api/v1/users/logout", handlers.WrapHandler(userHandler.LogoutUser))
		r.Get("/api/v1/users/me", handlers.WrapHandler(userHandler.GetProfile))
		r.Patch("/api/v1/users/me", handlers.WrapHandler(userHandler.UpdateProfile))
	})
}
