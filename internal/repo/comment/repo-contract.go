package comment_repo

import (
	"context"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CommentRepoContract interface {
	InsertComment(ctx context.Context, comment *entity.Comment) (bson.ObjectID, *app_error.AppError)
	ListComments(ctx context.Context, targetKind, targetId string, limit int, beforeId string) ([]entity.Comment, *app_error.AppError)
	InsertAnnotation(ctx context.Context, annotation *entity.Annotation) (bson.ObjectID, *app_error.AppError)
	ListAnnotations(ctx context.Context, imageId string) ([]entity.Annotation, *app_error.AppError)
	InsertActivity(ctx context.Context, activity *entity.Activity) error
}
