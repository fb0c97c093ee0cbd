package comment_dto

import "time"

type CommentResponse struct {
	ID         string     `json:"id"`
	TargetKind string     `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	ProjectID  string     `json:"project_id"`
	AuthorID   string     `json:"author_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

// CommentPageResponse carries the cursor for the next older page; HasMore
// false means the client reached the beginning of the thread.
type CommentPageResponse struct {
	Comments   []CommentResponse `json:"comments"`
	NextCursor string            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

type AnnotationResponse struct {
	ID        string         `json:"id"`
	ImageID   string         `json:"image_id"`
	ProjectID string         `json:"project_id"`
	AuthorID  string         `json:"author_id"`
	Shape     string         `json:"shape"`
	Geometry  map[string]any `json:"geometry"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
