package user_dto

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=100"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

type LoginUserRequest struct {
	Credential string `json:"credential" validate:"required"` // username or email
	Password   string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}
