package comment_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatat123/studioo-backend/internal/dtos/comment_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/internal/handlers"
	"github.com/gatat123/studioo-backend/internal/middleware"
	comment_service "github.com/gatat123/studioo-backend/internal/use-case/comment-case"
	"github.com/gatat123/studioo-backend/internal/utils"
	"github.com/gatat123/studioo-backend/state"
)

type CommentHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  comment_service.CommentServiceContract
}

func NewCommentHandler(state *state.AppState) *CommentHandler {
	return &CommentHandler{
		State:    state,
		Validate: validator.New(),
		Service:  comment_service.NewCommentService(state),
	}
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	var req comment_dto.CreateCommentRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateComment(r.Context(), claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("comment created", *resp, reqID))
	return nil
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	targetKind := chi.URLParam(r, "targetKind")
	targetId := chi.URLParam(r, "targetId")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return app_error.NewAppError(http.StatusBadRequest, "invalid limit", "limit")
		}
		limit = parsed
	}
	before := r.URL.Query().Get("before")

	resp, err := h.Service.ListComments(r.Context(), targetKind, targetId, limit, before)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("comments fetched", *resp, reqID))
	return nil
}

func (h *CommentHandler) CreateAnnotation(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	var req comment_dto.CreateAnnotationRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateAnnotation(r.Context(), claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("annotation created", *resp, reqID))
	return nil
}

func (h *CommentHandler) ListAnnotations(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	imageId := chi.URLParam(r, "imageId")

	resp, err := h.Service.ListAnnotations(r.Context(), imageId)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("annotations fetched", resp, reqID))
	return nil
}
