package models

import "time"

// Profile defines the public identity record based on the 'profiles' table.
// The id equals the owning user's id (one row per user, created at
// registration). Every field except the id is nullable.
type Profile struct {
	ID         int64     `json:"id" db:"id" example:"3"`
	FullName   *string   `json:"fullName,omitempty" db:"full_name" example:"Jordan Lee"`
	AvatarURL  *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	Bio        *string   `json:"bio,omitempty" db:"bio"`
	University *string   `json:"university,omitempty" db:"university"`
	Course     *string   `json:"course,omitempty" db:"course"`
	Year       *string   `json:"year,omitempty" db:"year"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left
// untouched; the avatar URL has its own update path.
type ProfileUpdate struct {
	FullName   *string
	Bio        *string
	University *string
	Course     *string
	Year       *string
}
