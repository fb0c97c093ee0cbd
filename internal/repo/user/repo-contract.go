package user_repo

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type UserRepoContract interface {
	CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError)
	SaveUser(ctx context.Context, model entity.User) *app_error.AppError
	UpdateUser(ctx context.Context, model *entity.User) *app_error.AppError
	FindUserByID(ctx context.Context, userId string) (*entity.User, *app_error.AppError)
	FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError)
	DisplayInfo(ctx context.Context, userID string) (string, string, error)
}
