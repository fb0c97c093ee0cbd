package user_service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gatat123/studioo-backend/internal/dtos/user_dto"
	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	user_repo "github.com/gatat123/studioo-backend/internal/repo/user"
	"github.com/gatat123/studioo-backend/internal/utils"
	"github.com/gatat123/studioo-backend/internal/utils/types"
	"github.com/gatat123/studioo-backend/state"
)

const refreshTTL = 7 * 24 * time.Hour

type UserService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
	}
}

func (u *UserService) Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError) {
	// count user, is the user already registered or not
	filter := &entity.UserFilter{
		Email:    &req.Email,
		Username: &req.Username,
	}
	count, err := u.UserRepo.CountUser(ctx, *filter)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, app_error.NewAppError(http.StatusConflict, "username or email already registered", "credential-registered")
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, hashErr.Error(), "password")
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		DisplayName:  req.DisplayName,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err = u.UserRepo.SaveUser(ctx, *user)
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (u *UserService) Login(ctx context.Context, req user_dto.LoginUserRequest, fingerprint string) (*user_dto.AuthResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByCredential(ctx, req.Credential)
	if err != nil {
		return nil, err
	}

	ok, verifyErr := utils.VerifyHash(user.PasswordHash, req.Password)
	if verifyErr != nil || !ok {
		return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid credentials", "credential")
	}

	if !user.IsActive {
		return nil, app_error.NewAppError(http.StatusForbidden, "account is deactivated", "account")
	}

	access, refresh, jti, signErr := utils.IssueNewTokens(user.ID, user.Username, u.AppState.JwtSecret.Private)
	if signErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to issue tokens", "token")
	}

	issueAt := time.Now().Unix()
	session := types.RefreshSession{
		UserId:      user.ID,
		JTI:         jti,
		Fingerprint: fingerprint,
		IssueAt:     issueAt,
		ExpireAt:    issueAt + int64(refreshTTL.Seconds()),
		Status:      "valid",
	}

	sessionKey := fmt.Sprintf("refresh:%s:%s:%s", user.ID, fingerprint, jti)
	if cacheErr := utils.SetCacheData(ctx, u.AppState.Redis, sessionKey, &session, refreshTTL); cacheErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to persist session", "redis-session")
	}

	// marker the websocket authenticator checks before upgrading
	deviceKey := fmt.Sprintf("session:%s:%s", user.ID, fingerprint)
	u.AppState.Redis.Set(ctx, deviceKey, jti, refreshTTL)

	return &user_dto.AuthResponse{
		User:    *toUserResponse(user),
		Token:   access,
		Refresh: refresh,
	}, nil
}

func (u *UserService) Logout(ctx context.Context, userId, fingerprint, refreshToken string) *app_error.AppError {
	// the websocket authenticator stops admitting this device immediately
	deviceKey := fmt.Sprintf("session:%s:%s", userId, fingerprint)
	if err := utils.DeleteCacheData(ctx, u.AppState.Redis, deviceKey); err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to revoke session", "redis-session")
	}

	// best effort: revoke the refresh session too when the cookie is present
	if refreshToken != "" {
		claims, parseErr := utils.ParseAndVerifySign(refreshToken, u.AppState.JwtSecret.Public)
		if parseErr == nil && claims.Jti != nil {
			refreshKey := fmt.Sprintf("refresh:%s:%s:%s", userId, fingerprint, *claims.Jti)
			utils.DeleteCacheData(ctx, u.AppState.Redis, refreshKey)
		}
	}

	return nil
}

func (u *UserService) Profile(ctx context.Context, userId string) (*user_dto.UserResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByID(ctx, userId)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (u *UserService) UpdateProfile(ctx context.Context, userId string, req user_dto.UpdateProfileRequest) (*user_dto.UserResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByID(ctx, userId)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.UpdatedAt = time.Now()

	if err := u.UserRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func toUserResponse(user *entity.User) *user_dto.UserResponse {
	return &user_dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}
}
