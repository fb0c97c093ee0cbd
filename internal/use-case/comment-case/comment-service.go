package comment_service

import (
	"context"
	"net/http"

	"github.com/gatat123/studioo-backend/internal/collab"
	"github.com/gatat123/studioo-backend/internal/dtos/comment_dto"
	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	comment_repo "github.com/gatat123/studioo-backend/internal/repo/comment"
	participation_repo "github.com/gatat123/studioo-backend/internal/repo/participation"
	scene_repo "github.com/gatat123/studioo-backend/internal/repo/scene"
	"github.com/gatat123/studioo-backend/state"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CommentService struct {
	AppState    *state.AppState
	CommentRepo comment_repo.CommentRepoContract
	SceneRepo   scene_repo.SceneRepoContract
	Resolver    collab.Store
}

func NewCommentService(appState *state.AppState) CommentServiceContract {
	return &CommentService{
		AppState:    appState,
		CommentRepo: comment_repo.NewCommentRepo(appState),
		SceneRepo:   scene_repo.NewSceneRepo(appState),
		Resolver:    participation_repo.NewParticipationRepo(appState),
	}
}

func (s *CommentService) CreateComment(ctx context.Context, authorId string, req comment_dto.CreateCommentRequest) (*comment_dto.CommentResponse, *app_error.AppError) {
	ref, err := s.Resolver.ProjectOf(ctx, collab.RoomKind(req.TargetKind), req.TargetID)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusNotFound, "comment target not found", "target")
	}

	comment := &entity.Comment{
		TargetKind: req.TargetKind,
		TargetID:   req.TargetID,
		ProjectID:  ref.ProjectID,
		AuthorID:   authorId,
		Content:    req.Content,
	}

	id, insErr := s.CommentRepo.InsertComment(ctx, comment)
	if insErr != nil {
		return nil, insErr
	}
	comment.ID = id

	return toCommentResponse(comment), nil
}

func (s *CommentService) ListComments(ctx context.Context, targetKind, targetId string, limit int, before string) (*comment_dto.CommentPageResponse, *app_error.AppError) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	// fetch one extra row to learn whether an older page exists
	comments, err := s.CommentRepo.ListComments(ctx, targetKind, targetId, limit+1, before)
	if err != nil {
		return nil, err
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}

	resp := &comment_dto.CommentPageResponse{
		Comments: make([]comment_dto.CommentResponse, 0, len(comments)),
		HasMore:  hasMore,
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, *toCommentResponse(&comments[i]))
	}
	if hasMore && len(comments) > 0 {
		resp.NextCursor = comments[len(comments)-1].ID.Hex()
	}

	return resp, nil
}

func (s *CommentService) CreateAnnotation(ctx context.Context, authorId string, req comment_dto.CreateAnnotationRequest) (*comment_dto.AnnotationResponse, *app_error.AppError) {
	ref, err := s.Resolver.ProjectOf(ctx, collab.KindImage, req.ImageID)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusNotFound, "image not found", "image-id")
	}

	annotation := &entity.Annotation{
		ImageID:   req.ImageID,
		ProjectID: ref.ProjectID,
		AuthorID:  authorId,
		Shape:     req.Shape,
		Geometry:  req.Geometry,
		Note:      req.Note,
	}

	id, insErr := s.CommentRepo.InsertAnnotation(ctx, annotation)
	if insErr != nil {
		return nil, insErr
	}
	annotation.ID = id

	return toAnnotationResponse(annotation), nil
}

func (s *CommentService) ListAnnotations(ctx context.Context, imageId string) ([]comment_dto.AnnotationResponse, *app_error.AppError) {
	annotations, err := s.CommentRepo.ListAnnotations(ctx, imageId)
	if err != nil {
		return nil, err
	}

	resp := make([]comment_dto.AnnotationResponse, 0, len(annotations))
	for i := range annotations {
		resp = append(resp, *toAnnotationResponse(&annotations[i]))
	}
	return resp, nil
}

func toCommentResponse(comment *entity.Comment) *comment_dto.CommentResponse {
	return &comment_dto.CommentResponse{
		ID:         comment.ID.Hex(),
		TargetKind: comment.TargetKind,
		TargetID:   comment.TargetID,
		ProjectID:  comment.ProjectID,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
		EditedAt:   comment.EditedAt,
	}
}

func toAnnotationResponse(annotation *entity.Annotation) *comment_dto.AnnotationResponse {
	return &comment_dto.AnnotationResponse{
		ID:        annotation.ID.Hex(),
		ImageID:   annotation.ImageID,
		ProjectID: annotation.ProjectID,
		AuthorID:  annotation.AuthorID,
		Shape:     annotation.Shape,
		Geometry:  annotation.Geometry,
		Note:      annotation.Note,
		CreatedAt: annotation.CreatedAt,
	}
}
