package todo_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatat123/studioo-backend/internal/dtos/todo_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/internal/handlers"
	"github.com/gatat123/studioo-backend/internal/middleware"
	todo_service "github.com/gatat123/studioo-backend/internal/use-case/todo-case"
	"github.com/gatat123/studioo-backend/internal/utils"
	"github.com/gatat123/studioo-backend/state"
)

type TodoHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  todo_service.TodoServiceContract
}

func NewTodoHandler(state *state.AppState) *TodoHandler {
	return &TodoHandler{
		State:    state,
		Validate: validator.New(),
		Service:  todo_service.NewTodoService(state),
	}
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	projectId := chi.URLParam(r, "projectId")

	var req todo_dto.CreateTodoRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateTodo(r.Context(), projectId, claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("todo created", *resp, reqID))
	return nil
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	projectId := chi.URLParam(r, "projectId")

	resp, err := h.Service.ListTodos(r.Context(), projectId)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("todos fetched", resp, reqID))
	return nil
}

func (h *TodoHandler) UpdateTodoStatus(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	todoId := chi.URLParam(r, "todoId")

	var req todo_dto.UpdateTodoStatusRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.UpdateTodoStatus(r.Context(), todoId, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("todo updated", *resp, reqID))
	return nil
}
