package project_dto

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

type InviteParticipantRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=admin member"`
}

type CreateSceneRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

type RegisterImageRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Width       int    `json:"width" validate:"gte=0"`
	Height      int    `json:"height" validate:"gte=0"`
	StorageKey  string `json:"storage_key" validate:"required"`
}
