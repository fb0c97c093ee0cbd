package project_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gatat123/studioo-backend/config"
	"github.com/gatat123/studioo-backend/internal/dtos/project_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/internal/handlers"
	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/internal/queue"
	project_service "github.com/gatat123/studioo-backend/internal/use-case/project-case"
	"github.com/gatat123/studioo-backend/internal/utils"
	"github.com/gatat123/studioo-backend/state"
)

type ProjectHandler struct {
	State    *state.AppState
	Producer queue.Producer
	Validate *validator.Validate
	Service  project_service.ProjectServiceContract
}

func NewProjectHandler(state *state.AppState) *ProjectHandler {
	return &ProjectHandler{
		State:    state,
		Producer: queue.NewProducer(state.Redis),
		Validate: validator.New(),
		Service:  project_service.NewProjectService(state),
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	var req project_dto.CreateProjectRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateProject(r.Context(), claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("project created", *resp, reqID))

	h.enqueueActivity(resp.ID, claims.Sub, "project-created", map[string]any{"name": resp.Name})
	return nil
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	projectId := chi.URLParam(r, "projectId")

	resp, err := h.Service.GetProject(r.Context(), projectId)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("project fetched", *resp, reqID))
	return nil
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	resp, err := h.Service.ListProjects(r.Context(), claims.Sub)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("projects fetched", resp, reqID))
	return nil
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	projectId := chi.URLParam(r, "projectId")

	var req project_dto.UpdateProjectRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.UpdateProject(r.Context(), projectId, claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("project updated", *resp, reqID))

	// fan the change out to every live room attached to this project
	h.enqueueProjectEvent(projectId, claims.Sub, "project-updated", map[string]any{
		"name":   resp.Name,
		"status": resp.Status,
	})
	h.enqueueActivity(projectId, claims.Sub, "project-updated", nil)
	return nil
}

func (h *ProjectHandler) InviteParticipant(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	projectId := chi.URLParam(r, "projectId")

	var req project_dto.InviteParticipantRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	if err := h.Service.InviteParticipant(r.Context(), projectId, claims.Sub, req); err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("participant invited", req, reqID))

	h.enqueueProjectEvent(projectId, claims.Sub, "project-participant-invited", map[string]any{
		"userId": req.UserID,
		"role":   req.Role,
	})
	h.enqueueActivity(projectId, claims.Sub, "participant-invited", map[string]any{"userId": req.UserID})
	return nil
}

func (h *ProjectHandler) ListParticipants(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	projectId := chi.URLParam(r, "projectId")

	resp, err := h.Service.ListParticipants(r.Context(), projectId)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("participants fetched", resp, reqID))
	return nil
}

func (h *ProjectHandler) CreateScene(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	projectId := chi.URLParam(r, "projectId")

	var req project_dto.CreateSceneRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateScene(r.Context(), projectId, claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("scene created", *resp, reqID))

	h.enqueueProjectEvent(projectId, claims.Sub, "scene-created", map[string]any{"sceneId": resp.ID, "name": resp.Name})
	h.enqueueActivity(projectId, claims.Sub, "scene-created", map[string]any{"sceneId": resp.ID})
	return nil
}

func (h *ProjectHandler) ListScenes(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	projectId := chi.URLParam(r, "projectId")

	resp, err := h.Service.ListScenes(r.Context(), projectId)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("scenes fetched", resp, reqID))
	return nil
}

func (h *ProjectHandler) RegisterImage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims, ok := r.Context().Value(middleware.UserClaimsKey).(*utils.Claims)
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing user claims", "auth")
	}

	sceneId := chi.URLParam(r, "sceneId")

	var req project_dto.RegisterImageRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.RegisterImage(r.Context(), sceneId, claims.Sub, req)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusCreated, handlers.CreateResponse("image registered", *resp, reqID))

	h.enqueueProjectEvent(resp.ProjectID, claims.Sub, "image-registered", map[string]any{"imageId": resp.ID, "sceneId": sceneId})
	h.enqueueActivity(resp.ProjectID, claims.Sub, "image-registered", map[string]any{"imageId": resp.ID})
	return nil
}

func (h *ProjectHandler) ListImages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	sceneId := chi.URLParam(r, "sceneId")

	resp, err := h.Service.ListImages(r.Context(), sceneId)
	if err != nil {
		return err
	}

	reqID, _ := r.Context().Value(middleware.RequestIdKey).(string)
	handlers.WriteJSON(w, http.StatusOK, handlers.CreateResponse("images fetched", resp, reqID))
	return nil
}

func (h *ProjectHandler) enqueueProjectEvent(projectId, actorId, event string, detail map[string]any) {
	go func() {
		job := queue.Job{
			ID:   uuid.New().String(),
			Type: queue.JobProjectEvent,
			Payload: queue.MustMarshal(queue.ProjectEventPayload{
				ProjectID: projectId,
				Event:     event,
				ActorID:   actorId,
				Detail:    detail,
			}),
			Priority:  1,
			MaxRetry:  3,
			CreatedAt: time.Now().Unix(),
			ExpireAt:  time.Now().Add(5 * time.Minute).Unix(),
		}

		if err := h.Producer.Enqueue(h.State.Ctx, job); err != nil {
			log.Error().Err(err).Msg("Failed to enqueue project event job")
		}
	}()
}

func (h *ProjectHandler) enqueueActivity(projectId, actorId, action string, detail map[string]any) {
	go func() {
		job := queue.Job{
			ID:   uuid.New().String(),
			Type: queue.JobActivityRecord,
			Payload: queue.MustMarshal(queue.ActivityRecordPayload{
				ProjectID: projectId,
				ActorID:   actorId,
				Action:    action,
				Detail:    detail,
			}),
			Priority:  2,
			MaxRetry:  config.Conf.WORKER.MaxRetry,
			CreatedAt: time.Now().Unix(),
			ExpireAt:  time.Now().Add(30 * time.Minute).Unix(),
		}

		if err := h.Producer.Enqueue(h.State.Ctx, job); err != nil {
			log.Error().Err(err).Msg("Failed to enqueue activity record job")
		}
	}()
}
