package scene_repo

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type SceneRepoContract interface {
	CreateScene(ctx context.Context, scene *entity.Scene) *app_error.AppError
	FindSceneByID(ctx context.Context, sceneId string) (*entity.Scene, *app_error.AppError)
	ListScenes(ctx context.Context, projectId string) ([]entity.Scene, *app_error.AppError)
	CreateImage(ctx context.Context, image *entity.Image) *app_error.AppError
	ListImages(ctx context.Context, sceneId string) ([]entity.Image, *app_error.AppError)
}
