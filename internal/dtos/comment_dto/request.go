package comment_dto

type CreateCommentRequest struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=project scene image"`
	TargetID   string `json:"target_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=5000"`
}

type CreateAnnotationRequest struct {
	ImageID  string         `json:"image_id" validate:"required"`
	Shape    string         `json:"shape" validate:"required,oneof=rect arrow freehand"`
	Geometry map[string]any `json:"geometry" validate:"required"`
	Note     string         `json:"note" validate:"max=2000"`
}
