package user_service

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/dtos/user_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginUserRequest, fingerprint string) (*user_dto.AuthResponse, *app_error.AppError)
	Logout(ctx context.Context, userId, fingerprint, refreshToken string) *app_error.AppError
	Profile(ctx context.Context, userId string) (*user_dto.UserResponse, *app_error.AppError)
	UpdateProfile(ctx context.Context, userId string, req user_dto.UpdateProfileRequest) (*user_dto.UserResponse, *app_error.AppError)
}
