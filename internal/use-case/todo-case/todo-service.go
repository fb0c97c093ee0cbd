package todo_service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gatat123/studioo-backend/internal/dtos/todo_dto"
	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	project_repo "github.com/gatat123/studioo-backend/internal/repo/project"
	todo_repo "github.com/gatat123/studioo-backend/internal/repo/todo"
	"github.com/gatat123/studioo-backend/state"
)

type TodoService struct {
	AppState    *state.AppState
	TodoRepo    todo_repo.TodoRepoContract
	ProjectRepo project_repo.ProjectRepoContract
}

func NewTodoService(appState *state.AppState) TodoServiceContract {
	return &TodoService{
		AppState:    appState,
		TodoRepo:    todo_repo.NewTodoRepo(appState),
		ProjectRepo: project_repo.NewProjectRepo(appState),
	}
}

func (s *TodoService) CreateTodo(ctx context.Context, projectId, userId string, req todo_dto.CreateTodoRequest) (*todo_dto.TodoResponse, *app_error.AppError) {
	if _, err := s.ProjectRepo.FindProjectByID(ctx, projectId); err != nil {
		return nil, err
	}

	todo := &entity.Todo{
		ID:          uuid.New(),
		ProjectID:   projectId,
		Title:       req.Title,
		Description: req.Description,
		Status:      "pending",
		AssigneeID:  req.AssigneeID,
		CreatedBy:   userId,
		DueAt:       req.DueAt,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.TodoRepo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	return toTodoResponse(todo), nil
}

func (s *TodoService) ListTodos(ctx context.Context, projectId string) ([]todo_dto.TodoResponse, *app_error.AppError) {
	todos, err := s.TodoRepo.ListTodos(ctx, projectId)
	if err != nil {
		return nil, err
	}

	resp := make([]todo_dto.TodoResponse, 0, len(todos))
	for i := range todos {
		resp = append(resp, *toTodoResponse(&todos[i]))
	}
	return resp, nil
}

func (s *TodoService) UpdateTodoStatus(ctx context.Context, todoId string, req todo_dto.UpdateTodoStatusRequest) (*todo_dto.TodoResponse, *app_error.AppError) {
	todo, err := s.TodoRepo.UpdateTodoStatus(ctx, todoId, req.Status)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

func toTodoResponse(todo *entity.Todo) *todo_dto.TodoResponse {
	return &todo_dto.TodoResponse{
		ID:          todo.ID.String(),
		ProjectID:   todo.ProjectID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		AssigneeID:  todo.AssigneeID,
		CreatedBy:   todo.CreatedBy,
		DueAt:       todo.DueAt,
		CreatedAt:   todo.CreatedAt,
	}
}
