package todo_service

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/dtos/todo_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type TodoServiceContract interface {
	CreateTodo(ctx context.Context, projectId, userId string, req todo_dto.CreateTodoRequest) (*todo_dto.TodoResponse, *app_error.AppError)
	ListTodos(ctx context.Context, projectId string) ([]todo_dto.TodoResponse, *app_error.AppError)
	UpdateTodoStatus(ctx context.Context, todoId string, req todo_dto.UpdateTodoStatusRequest) (*todo_dto.TodoResponse, *app_error.AppError)
}
