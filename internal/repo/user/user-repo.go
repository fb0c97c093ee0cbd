package user_repo

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/state"
)

type UserRepo struct {
	AppState *state.AppState
}

func NewUserRepo(appState *state.AppState) UserRepoContract {
	return &UserRepo{
		AppState: appState,
	}
}

func (r *UserRepo) CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError) {
	var count int64

	query := r.AppState.DB.WithContext(ctx).Model(&entity.User{})

	if filter.Email != nil {
		query = query.Where("email = ?", filter.Email)
	}

	if filter.Username != nil {
		query = query.Where("username = ?", filter.Username)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, app_error.NewAppError(http.StatusInternalServerError, "unexpected server error", "db-count")
	}
	return count, nil
}

func (r *UserRepo) SaveUser(ctx context.Context, model entity.User) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(model).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when trying to create user", "db-create")
	}

	return nil
}

func (r *UserRepo) UpdateUser(ctx context.Context, model *entity.User) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Save(model).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when trying to update user", "db-update")
	}

	return nil
}

func (r *UserRepo) FindUserByID(ctx context.Context, userId string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-id")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

// FindUserByCredential accepts either username or email.
func (r *UserRepo) FindUserByCredential(ctx context.Context, credential string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("username = ? OR email = ?", credential, credential).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-credential")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

// DisplayInfo backs the websocket connection authenticator; it returns the
// denormalized attributes captured into each room join.
func (r *UserRepo) DisplayInfo(ctx context.Context, userID string) (string, string, error) {
	var user entity.User
	err := r.AppState.DB.WithContext(ctx).
		Select("display_name", "avatar_url", "username").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return "", "", err
	}

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	return name, user.AvatarURL, nil
}
