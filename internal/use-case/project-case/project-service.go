package project_service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gatat123/studioo-backend/internal/dtos/project_dto"
	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	project_repo "github.com/gatat123/studioo-backend/internal/repo/project"
	scene_repo "github.com/gatat123/studioo-backend/internal/repo/scene"
	user_repo "github.com/gatat123/studioo-backend/internal/repo/user"
	"github.com/gatat123/studioo-backend/state"
)

type ProjectService struct {
	AppState    *state.AppState
	ProjectRepo project_repo.ProjectRepoContract
	SceneRepo   scene_repo.SceneRepoContract
	UserRepo    user_repo.UserRepoContract
}

func NewProjectService(appState *state.AppState) ProjectServiceContract {
	return &ProjectService{
		AppState:    appState,
		ProjectRepo: project_repo.NewProjectRepo(appState),
		SceneRepo:   scene_repo.NewSceneRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, userId string, req project_dto.CreateProjectRequest) (*project_dto.ProjectResponse, *app_error.AppError) {
	project := &entity.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
		CreatedBy:   userId,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.ProjectRepo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	// the creator is a participant from day one, not only via the
	// creator-as-owner fallback
	owner := &entity.ProjectParticipant{
		ProjectID: project.ID.String(),
		UserID:    userId,
		Role:      "owner",
		JoinedAt:  time.Now(),
	}
	if err := s.ProjectRepo.AddParticipant(ctx, owner); err != nil {
		return nil, err
	}

	return toProjectResponse(project), nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectId string) (*project_dto.ProjectResponse, *app_error.AppError) {
	project, err := s.ProjectRepo.FindProjectByID(ctx, projectId)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *ProjectService) ListProjects(ctx context.Context, userId string) ([]project_dto.ProjectResponse, *app_error.AppError) {
	projects, err := s.ProjectRepo.ListProjectsByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	resp := make([]project_dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, *toProjectResponse(&projects[i]))
	}
	return resp, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, projectId, userId string, req project_dto.UpdateProjectRequest) (*project_dto.ProjectResponse, *app_error.AppError) {
	project, err := s.ProjectRepo.FindProjectByID(ctx, projectId)
	if err != nil {
		return nil, err
	}

	if err := s.requireRole(ctx, project, userId, "owner", "admin"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}

	if err := s.ProjectRepo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}

	return toProjectResponse(project), nil
}

func (s *ProjectService) InviteParticipant(ctx context.Context, projectId, inviterId string, req project_dto.InviteParticipantRequest) *app_error.AppError {
	project, err := s.ProjectRepo.FindProjectByID(ctx, projectId)
	if err != nil {
		return err
	}

	if err := s.requireRole(ctx, project, inviterId, "owner", "admin"); err != nil {
		return err
	}

	if _, err := s.UserRepo.FindUserByID(ctx, req.UserID); err != nil {
		return err
	}

	participant := &entity.ProjectParticipant{
		ProjectID: projectId,
		UserID:    req.UserID,
		Role:      req.Role,
		InvitedBy: inviterId,
		JoinedAt:  time.Now(),
	}
	return s.ProjectRepo.AddParticipant(ctx, participant)
}

func (s *ProjectService) ListParticipants(ctx context.Context, projectId string) ([]project_dto.ParticipantResponse, *app_error.AppError) {
	participants, err := s.ProjectRepo.ListParticipants(ctx, projectId)
	if err != nil {
		return nil, err
	}

	resp := make([]project_dto.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		resp = append(resp, project_dto.ParticipantResponse{
			UserID:   p.UserID,
			Role:     p.Role,
			JoinedAt: p.JoinedAt,
		})
	}
	return resp, nil
}

func (s *ProjectService) CreateScene(ctx context.Context, projectId, userId string, req project_dto.CreateSceneRequest) (*project_dto.SceneResponse, *app_error.AppError) {
	if _, err := s.ProjectRepo.FindProjectByID(ctx, projectId); err != nil {
		return nil, err
	}

	scene := &entity.Scene{
		ID:        uuid.New(),
		ProjectID: projectId,
		Name:      req.Name,
		SortOrder: req.SortOrder,
		CreatedBy: userId,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.SceneRepo.CreateScene(ctx, scene); err != nil {
		return nil, err
	}

	return toSceneResponse(scene), nil
}

func (s *ProjectService) ListScenes(ctx context.Context, projectId string) ([]project_dto.SceneResponse, *app_error.AppError) {
	scenes, err := s.SceneRepo.ListScenes(ctx, projectId)
	if err != nil {
		return nil, err
	}

	resp := make([]project_dto.SceneResponse, 0, len(scenes))
	for i := range scenes {
		resp = append(resp, *toSceneResponse(&scenes[i]))
	}
	return resp, nil
}

func (s *ProjectService) RegisterImage(ctx context.Context, sceneId, userId string, req project_dto.RegisterImageRequest) (*project_dto.ImageResponse, *app_error.AppError) {
	scene, err := s.SceneRepo.FindSceneByID(ctx, sceneId)
	if err != nil {
		return nil, err
	}

	image := &entity.Image{
		ID:          uuid.New(),
		SceneID:     sceneId,
		ProjectID:   scene.ProjectID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Width:       req.Width,
		Height:      req.Height,
		StorageKey:  req.StorageKey,
		UploadedBy:  userId,
		CreatedAt:   time.Now(),
	}

	if err := s.SceneRepo.CreateImage(ctx, image); err != nil {
		return nil, err
	}

	return toImageResponse(image), nil
}

func (s *ProjectService) ListImages(ctx context.Context, sceneId string) ([]project_dto.ImageResponse, *app_error.AppError) {
	images, err := s.SceneRepo.ListImages(ctx, sceneId)
	if err != nil {
		return nil, err
	}

	resp := make([]project_dto.ImageResponse, 0, len(images))
	for i := range images {
		resp = append(resp, *toImageResponse(&images[i]))
	}
	return resp, nil
}

// requireRole treats the project creator as owner even when no
// participation row exists for them.
func (s *ProjectService) requireRole(ctx context.Context, project *entity.Project, userId string, roles ...string) *app_error.AppError {
	role := "member"
	if project.CreatedBy == userId {
		role = "owner"
	} else {
		participant, err := s.ProjectRepo.FindParticipant(ctx, project.ID.String(), userId)
		if err != nil {
			return app_error.NewAppError(http.StatusForbidden, "insufficient permissions", "role")
		}
		role = participant.Role
	}

	for _, allowed := range roles {
		if role == allowed {
			return nil
		}
	}
	return app_error.NewAppError(http.StatusForbidden, "insufficient permissions", "role")
}

func toProjectResponse(project *entity.Project) *project_dto.ProjectResponse {
	return &project_dto.ProjectResponse{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func toSceneResponse(scene *entity.Scene) *project_dto.SceneResponse {
	return &project_dto.SceneResponse{
		ID:        scene.ID.String(),
		ProjectID: scene.ProjectID,
		Name:      scene.Name,
		SortOrder: scene.SortOrder,
		CreatedBy: scene.CreatedBy,
		CreatedAt: scene.CreatedAt,
	}
}

func toImageResponse(image *entity.Image) *project_dto.ImageResponse {
	return &project_dto.ImageResponse{
		ID:          image.ID.String(),
		SceneID:     image.SceneID,
		ProjectID:   image.ProjectID,
		FileName:    image.FileName,
		ContentType: image.ContentType,
		Width:       image.Width,
		Height:      image.Height,
		StorageKey:  image.StorageKey,
		UploadedBy:  image.UploadedBy,
		CreatedAt:   image.CreatedAt,
	}
}
