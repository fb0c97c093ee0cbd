package scene_repo

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/state"
)

type SceneRepo struct {
	AppState *state.AppState
}

func NewSceneRepo(appState *state.AppState) SceneRepoContract {
	return &SceneRepo{
		AppState: appState,
	}
}

func (r *SceneRepo) CreateScene(ctx context.Context, scene *entity.Scene) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(scene).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to create scene", "db-create")
	}
	return nil
}

func (r *SceneRepo) FindSceneByID(ctx context.Context, sceneId string) (*entity.Scene, *app_error.AppError) {
	var scene entity.Scene

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", sceneId).First(&scene).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find scene", "scene-id")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch scene", "db-error")
	}

	return &scene, nil
}

func (r *SceneRepo) ListScenes(ctx context.Context, projectId string) ([]entity.Scene, *app_error.AppError) {
	var scenes []entity.Scene

	err := r.AppState.DB.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("sort_order ASC, created_at ASC").
		Find(&scenes).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list scenes", "db-error")
	}

	return scenes, nil
}

func (r *SceneRepo) CreateImage(ctx context.Context, image *entity.Image) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(image).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to register image", "db-create")
	}
	return nil
}

func (r *SceneRepo) ListImages(ctx context.Context, sceneId string) ([]entity.Image, *app_error.AppError) {
	var images []entity.Image

	err := r.AppState.DB.WithContext(ctx).
		Where("scene_id = ?", sceneId).
		Order("created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list images", "db-error")
	}

	return images, nil
}
