package project_repo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/state"
)

type ProjectRepo struct {
	AppState *state.AppState
}

func NewProjectRepo(appState *state.AppState) ProjectRepoContract {
	return &ProjectRepo{
		AppState: appState,
	}
}

// CreateProject writes the project and its owner participation row in one
// transaction so the role resolver never observes a creator-less project.
func (r *ProjectRepo) CreateProject(ctx context.Context, project *entity.Project) *app_error.AppError {
	tx := r.AppState.DB.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(project).Error; err != nil {
		tx.Rollback()
		return app_error.NewAppError(http.StatusInternalServerError, "failed to create project", "db-create")
	}

	owner := entity.ProjectParticipant{
		ProjectID: project.ID.String(),
		UserID:    project.CreatedBy,
		Role:      "owner",
		InvitedBy: project.CreatedBy,
	}
	if err := tx.Create(&owner).Error; err != nil {
		tx.Rollback()
		return app_error.NewAppError(http.StatusInternalServerError, "failed to create owner participation", "db-create")
	}

	if err := tx.Commit().Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to commit project creation", "db-commit")
	}
	return nil
}

func (r *ProjectRepo) FindProjectByID(ctx context.Context, projectId string) (*entity.Project, *app_error.AppError) {
	var project entity.Project

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", projectId).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find project", "project-id")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch project", "db-error")
	}

	return &project, nil
}

func (r *ProjectRepo) ListProjectsByUser(ctx context.Context, userId string) ([]entity.Project, *app_error.AppError) {
	var projects []entity.Project

	err := r.AppState.DB.WithContext(ctx).
		Distinct("projects.*").
		Joins("LEFT JOIN project_participants pp ON pp.project_id = projects.id::text").
		Where("projects.created_by = ? OR pp.user_id = ?", userId, userId).
		Order("projects.updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list projects", "db-error")
	}

	return projects, nil
}

func (r *ProjectRepo) UpdateProject(ctx context.Context, project *entity.Project) *app_error.AppError {
	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
		}).Error
	if err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to update project", "db-update")
	}
	return nil
}

func (r *ProjectRepo) AddParticipant(ctx context.Context, participant *entity.ProjectParticipant) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(participant).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return app_error.NewAppError(http.StatusConflict, "user is already a participant", "participant")
		}
		return app_error.NewAppError(http.StatusInternalServerError, "failed to add participant", "db-create")
	}
	return nil
}

func (r *ProjectRepo) FindParticipant(ctx context.Context, projectId, userId string) (*entity.ProjectParticipant, *app_error.AppError) {
	var participant entity.ProjectParticipant

	err := r.AppState.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectId, userId).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "user is not a participant", "participant")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch participant", "db-error")
	}

	return &participant, nil
}

func (r *ProjectRepo) ListParticipants(ctx context.Context, projectId string) ([]entity.ProjectParticipant, *app_error.AppError) {
	var participants []entity.ProjectParticipant

	err := r.AppState.DB.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list participants", "db-error")
	}

	return participants, nil
}
