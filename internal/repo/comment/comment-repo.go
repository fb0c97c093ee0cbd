package comment_repo

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gatat123/studioo-backend/internal/entity"
	app_error "github.com/gatat123/studioo-backend/internal/errors"
	"github.com/gatat123/studioo-backend/state"
)

const databaseName = "studioo"

type CommentRepo struct {
	AppState *state.AppState
}

func NewCommentRepo(appState *state.AppState) CommentRepoContract {
	return &CommentRepo{
		AppState: appState,
	}
}

func (r *CommentRepo) comments() *mongo.Collection {
	return r.AppState.Mongo.Database(databaseName).Collection("comments")
}

func (r *CommentRepo) annotations() *mongo.Collection {
	return r.AppState.Mongo.Database(databaseName).Collection("annotations")
}

func (r *CommentRepo) activities() *mongo.Collection {
	return r.AppState.Mongo.Database(databaseName).Collection("activities")
}

func (r *CommentRepo) InsertComment(ctx context.Context, comment *entity.Comment) (bson.ObjectID, *app_error.AppError) {
	comment.CreatedAt = time.Now()

	res, err := r.comments().InsertOne(ctx, comment)
	if err != nil {
		return bson.NilObjectID, app_error.NewAppError(http.StatusInternalServerError, "failed to insert comment", "mongo-insert")
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, app_error.NewAppError(http.StatusInternalServerError, "unexpected inserted id type", "mongo-insert")
	}
	return id, nil
}

// ListComments pages newest-first with an ObjectID cursor, the same shape
// the client uses for infinite scroll.
func (r *CommentRepo) ListComments(ctx context.Context, targetKind, targetId string, limit int, beforeId string) ([]entity.Comment, *app_error.AppError) {
	filter := bson.M{
		"targetKind": targetKind,
		"targetId":   targetId,
	}

	if beforeId != "" {
		oid, err := bson.ObjectIDFromHex(beforeId)
		if err != nil {
			return nil, app_error.NewAppError(http.StatusBadRequest, "invalid cursor", "before-id")
		}
		filter["_id"] = bson.M{"$lt": oid}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.comments().Find(ctx, filter, opts)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to query comments", "mongo-find")
	}
	defer cursor.Close(ctx)

	var comments []entity.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to decode comments", "mongo-decode")
	}

	return comments, nil
}

func (r *CommentRepo) InsertAnnotation(ctx context.Context, annotation *entity.Annotation) (bson.ObjectID, *app_error.AppError) {
	annotation.CreatedAt = time.Now()

	res, err := r.annotations().InsertOne(ctx, annotation)
	if err != nil {
		return bson.NilObjectID, app_error.NewAppError(http.StatusInternalServerError, "failed to insert annotation", "mongo-insert")
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, app_error.NewAppError(http.StatusInternalServerError, "unexpected inserted id type", "mongo-insert")
	}
	return id, nil
}

func (r *CommentRepo) ListAnnotations(ctx context.Context, imageId string) ([]entity.Annotation, *app_error.AppError) {
	cursor, err := r.annotations().Find(ctx, bson.M{"imageId": imageId}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to query annotations", "mongo-find")
	}
	defer cursor.Close(ctx)

	var annotations []entity.Annotation
	if err := cursor.All(ctx, &annotations); err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to decode annotations", "mongo-decode")
	}

	return annotations, nil
}

// InsertActivity is called from the worker; a plain error is enough there.
func (r *CommentRepo) InsertActivity(ctx context.Context, activity *entity.Activity) error {
	activity.CreatedAt = time.Now()
	_, err := r.activities().InsertOne(ctx, activity)
	return err
}
