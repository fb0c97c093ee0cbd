package comment_service

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/dtos/comment_dto"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
)

type CommentServiceContract interface {
	CreateComment(ctx context.Context, authorId string, req comment_dto.CreateCommentRequest) (*comment_dto.CommentResponse, *app_error.AppError)
	ListComments(ctx context.Context, targetKind, targetId string, limit int, before string) (*comment_dto.CommentPageResponse, *app_error.AppError)
	CreateAnnotation(ctx context.Context, authorId string, req comment_dto.CreateAnnotationRequest) (*comment_dto.AnnotationResponse, *app_error.AppError)
	ListAnnotations(ctx context.Context, imageId string) ([]comment_dto.AnnotationResponse, *app_error.AppError)
}
