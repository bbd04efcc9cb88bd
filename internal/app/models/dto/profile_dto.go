package dto

// UpdateProfileRequest carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileRequest struct {
	FullName   *string `json:"fullName,omitempty" validate:"omitempty,max=100" example:"Jordan Lee"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	University *string `json:"university,omitempty" validate:"omitempty,max=200" example:"State University"`
	Course     *string `json:"course,omitempty" validate:"omitempty,max=100" example:"Computer Science"`
	Year       *string `json:"year,omitempty" validate:"omitempty,max=20" example:"3rd year"`
}

// ProfileResponse represents the data returned for a profile read.
type ProfileResponse struct {
	ID         int64   `json:"id" example:"3"`
	FullName   *string `json:"fullName,omitempty" example:"Jordan Lee"`
	AvatarURL  *string `json:"avatarUrl,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	University *string `json:"university,omitempty"`
	Course     *string `json:"course,omitempty"`
	Year       *string `json:"year,omitempty"`
}
