package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// UpdateProfileRequest is a partial update; nil fields are left alone.
type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	Bio             *string `json:"bio" binding:"omitempty,max=500"`
	Avatar          *string `json:"avatar" binding:"omitempty,max=2048"`
	IsProfilePublic *bool   `json:"is_profile_public"`
}
