package project_repo

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type ProjectRepoContract interface {
	CreateProject(ctx context.Context, project *entity.Project) *app_error.AppError
	FindProjectByID(ctx context.Context, projectId string) (*entity.Project, *app_error.AppError)
	ListProjectsByUser(ctx context.Context, userId string) ([]entity.Project, *app_error.AppError)
	UpdateProject(ctx context.Context, project *entity.Project) *app_error.AppError
	AddParticipant(ctx context.Context, participant *entity.ProjectParticipant) *app_error.AppError
	FindParticipant(ctx context.Context, projectId, userId string) (*entity.ProjectParticipant, *app_error.AppError)
	ListParticipants(ctx context.Context, projectId string) ([]entity.ProjectParticipant, *app_error.AppError)
}
