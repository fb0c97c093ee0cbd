package participation_repo

import (
	"context"
	"fmt"

	"github.com/gatat123/studioo-backend/internal/collab"
	"github.com/gatat123/studioo-backend/internal/entity"
	"github.com/gatat123/studioo-backend/state"
)

// ParticipationRepo is the read-only persisted view the collab role
// resolver consumes. It returns plain errors: the manager treats any
// failure as "degrade to member", never as a hard join failure.
type ParticipationRepo struct {
	AppState *state.AppState
}

func NewParticipationRepo(appState *state.AppState) collab.Store {
	return &ParticipationRepo{AppState: appState}
}

func (r *ParticipationRepo) ProjectOf(ctx context.Context, kind collab.RoomKind, resourceID string) (collab.ResourceRef, error) {
	db := r.AppState.DB.WithContext(ctx)

	switch kind {
	case collab.KindProject:
		var project entity.Project
		if err := db.Select("id").Where("id = ?", resourceID).First(&project).Error; err != nil {
			return collab.ResourceRef{}, err
		}
		return collab.ResourceRef{ProjectID: resourceID}, nil

	case collab.KindScene:
		var scene entity.Scene
		if err := db.Select("id", "project_id").Where("id = ?", resourceID).First(&scene).Error; err != nil {
			return collab.ResourceRef{}, err
		}
		return collab.ResourceRef{ProjectID: scene.ProjectID, SceneID: resourceID}, nil

	case collab.KindImage:
		var image entity.Image
		if err := db.Select("id", "project_id", "scene_id").Where("id = ?", resourceID).First(&image).Error; err != nil {
			return collab.ResourceRef{}, err
		}
		return collab.ResourceRef{ProjectID: image.ProjectID, SceneID: image.SceneID, ImageID: resourceID}, nil

	default:
		return collab.ResourceRef{}, fmt.Errorf("unknown room kind %q", kind)
	}
}

func (r *ParticipationRepo) Participation(ctx context.Context, projectID, userID string) (string, error) {
	var participant entity.ProjectParticipant
	err := r.AppState.DB.WithContext(ctx).
		Select("role").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&participant).Error
	if err != nil {
		return "", err
	}
	return participant.Role, nil
}

func (r *ParticipationRepo) ProjectCreator(ctx context.Context, projectID string) (string, error) {
	var project entity.Project
	err := r.AppState.DB.WithContext(ctx).
		Select("created_by").
		Where("id = ?", projectID).
		First(&project).Error
	if err != nil {
		return "", err
	}
	return project.CreatedBy, nil
}
