package project_service

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/dtos/project_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type ProjectServiceContract interface {
	CreateProject(ctx context.Context, userId string, req project_dto.CreateProjectRequest) (*project_dto.ProjectResponse, *app_error.AppError)
	GetProject(ctx context.Context, projectId string) (*project_dto.ProjectResponse, *app_error.AppError)
	ListProjects(ctx context.Context, userId string) ([]project_dto.ProjectResponse, *app_error.AppError)
	UpdateProject(ctx context.Context, projectId, userId string, req project_dto.UpdateProjectRequest) (*project_dto.ProjectResponse, *app_error.AppError)
	InviteParticipant(ctx context.Context, projectId, inviterId string, req project_dto.InviteParticipantRequest) *app_error.AppError
	ListParticipants(ctx context.Context, projectId string) ([]project_dto.ParticipantResponse, *app_error.AppError)
	CreateScene(ctx context.Context, projectId, userId string, req project_dto.CreateSceneRequest) (*project_dto.SceneResponse, *app_error.AppError)
	ListScenes(ctx context.Context, projectId string) ([]project_dto.SceneResponse, *app_error.AppError)
	RegisterImage(ctx context.Context, sceneId, userId string, req project_dto.RegisterImageRequest) (*project_dto.ImageResponse, *app_error.AppError)
	ListImages(ctx context.Context, sceneId string) ([]project_dto.ImageResponse, *app_error.AppError)
}
