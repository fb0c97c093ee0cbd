package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gatat123/studioo-backend/internal/handlers"
	todo_handler "github.com/gatat123/studioo-backend/internal/handlers/todo-handler"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/state"
)

func TodoRouter(r chi.Router, state *state.AppState) {
	todoHandler := todo_handler.NewTodoHandler(state)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthWithAutoRefresh(state.JwtSecret.Private, state.JwtSecret.Public, state.Redis))

		r.Post("/api/v1/projects/{projectId}/todos", handlers.WrapHandler(todoHandler.CreateTodo))
		r.Get("/api/v1/projects/{projectId}/todos", handlers.WrapHandler(todoHandler.ListTodos))
		r.Patch("/api/v1/todos/{todoId}", handlers.WrapHandler(todoHandler.UpdateTodoStatus))
	})
}
