package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comments and annotations are document-shaped and live in mongo; only the
// durable relational data stays in postgres.
type Comment struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	TargetKind string        `bson:"targetKind"` // project | scene | image
	TargetID   string        `bson:"targetId"`
	ProjectID  string        `bson:"projectId"`
	AuthorID   string        `bson:"authorId"`
	Content    string        `bson:"content"`
	CreatedAt  time.Time     `bson:"createdAt"`
	EditedAt   *time.Time    `bson:"editedAt,omitempty"`
}

type Annotation struct {
	ID        bson.ObjectID  `bson:"_id,omitempty"`
	ImageID   string         `bson:"imageId"`
	ProjectID string         `bson:"projectId"`
	AuthorID  string         `bson:"authorId"`
	Shape     string         `bson:"shape"` // rect | arrow | freehand
	Geometry  map[string]any `bson:"geometry"`
	Note      string         `bson:"note,omitempty"`
	CreatedAt time.Time      `bson:"createdAt"`
}

type Activity struct {
	ID        bson.ObjectID  `bson:"_id,omitempty"`
	ProjectID string         `bson:"projectId"`
	ActorID   string         `bson:"actorId"`
	Action    string         `bson:"action"`
	Detail    map[string]any `bson:"detail,omitempty"`
	CreatedAt time.Time      `bson:"createdAt"`
}
