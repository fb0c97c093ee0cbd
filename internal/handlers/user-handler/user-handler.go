package user_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gatat123/studioo-backend/internal/dtos/user_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/internal/handlers"
	"github.com/gatat123/studioo-backend/internal/middleware"
	user_service "github.com/gatat123/studioo-backend/internal/use-case/user-case"
	"github.com/gatat123/studioo-backend/internal/utils"
	"github.com/gatat123/studioo-backend/state"
)

type UserHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  user_service.UserServiceContract
}

func NewUserHandler(state *state.AppState) *UserHandler {
	return &UserHandler{
		State:    state,
		Validate: validator.New(),
		Service:  user_service.NewUserService(state),
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.CreateUserRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Register(r.Context(), req)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("user registered successfully", *resp, reqID))
	return nil
}

func (h *UserHandler) LoginUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.LoginUserRequest
	defer r.Body.Close()

	fp, _ := r.Context().Value(middleware.FingerprintKey).(string)
	if fp == "" {
		return app_error.NewAppError(http.StatusBadRequest, "Missing device fingerprint", "fingerprint")
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Login(r.Context(), req, fp)
	if err != nil {
		return err
	}

	if len(resp.Refresh) == 0 {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to prepare refresh token", "server")
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    resp.Refresh,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})

	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("login successful", *resp, reqID))
	return nil
}

func (h *UserHandler) LogoutUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	fp, _ := r.Context().Value(middleware.FingerprintKey).(string)
	if fp == "" {
		return app_error.NewAppError(http.StatusBadRequest, "Missing device fingerprint", "fingerprint")
	}

	var refreshToken string
	if cookie, cookieErr := r.Cookie("refresh_token"); cookieErr == nil {
		refreshToken = cookie.Value
	}

	if err := h.Service.Logout(r.Context(), claims.Sub, fp, refreshToken); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("logout successful", struct{}{}, reqID))
	return nil
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	resp, err := h.Service.Profile(r.Context(), claims.Sub)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("profile fetched", *resp, reqID))
	return nil
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	var req user_dto.UpdateProfileRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.UpdateProfile(r.Context(), claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("profile updated", *resp, reqID))
	return nil
}
