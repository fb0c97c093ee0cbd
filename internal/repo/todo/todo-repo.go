package todo_repo

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/state"
)

type TodoRepoContract interface {
	CreateTodo(ctx context.Context, todo *entity.Todo) *app_error.AppError
	ListTodos(ctx context.Context, projectId string) ([]entity.Todo, *app_error.AppError)
	UpdateTodoStatus(ctx context.Context, todoId, status string) (*entity.Todo, *app_error.AppError)
}

type TodoRepo struct {
	AppState *state.AppState
}

func NewTodoRepo(appState *state.AppState) TodoRepoContract {
	return &TodoRepo{
		AppState: appState,
	}
}

func (r *TodoRepo) CreateTodo(ctx context.Context, todo *entity.Todo) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(todo).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to create todo", "db-create")
	}
	return nil
}

func (r *TodoRepo) ListTodos(ctx context.Context, projectId string) ([]entity.Todo, *app_error.AppError) {
	var todos []entity.Todo

	err := r.AppState.DB.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at ASC").
		Find(&todos).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list todos", "db-error")
	}

	return todos, nil
}

func (r *TodoRepo) UpdateTodoStatus(ctx context.Context, todoId, status string) (*entity.Todo, *app_error.AppError) {
	var todo entity.Todo

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", todoId).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find todo", "todo-id")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch todo", "db-error")
	}

	todo.Status = status
	if err := r.AppState.DB.WithContext(ctx).Model(&todo).Update("status", status).Error; err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to update todo status", "db-update")
	}

	return &todo, nil
}
