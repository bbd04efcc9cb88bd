package dto

// --- Request DTOs ---

// CreateNoteRequest carries the metadata for a new note. The document itself
// arrives as the "file" part of the multipart form.
type CreateNoteRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=1,max=200" example:"Algorithms Midterm Review"` // Title of the note
	Course      string `form:"course" json:"course" validate:"required,min=1,max=100" example:"CS201"`                   // Course the note belongs to
	Semester    string `form:"semester" json:"semester" validate:"required,min=1,max=50" example:"Fall 2024"`            // Semester the note was taken in
	Description string `form:"description" json:"description" validate:"max=2000"`                                      // Optional description
	Public      *bool  `form:"public" json:"public"`                                                                    // Visibility flag, defaults to true
}

// UpdateNoteRequest carries a partial metadata update; nil fields are left
// untouched.
type UpdateNoteRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200" example:"Algorithms Final Review"`
	Course      *string `json:"course,omitempty" validate:"omitempty,min=1,max=100" example:"CS201"`
	Semester    *string `json:"semester,omitempty" validate:"omitempty,min=1,max=50" example:"Spring 2025"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Public      *bool   `json:"public,omitempty"`
}

// --- Response DTOs ---

// AuthorInfo is the denormalized author block embedded in note reads.
type AuthorInfo struct {
	FullName  *string `json:"fullName,omitempty" example:"Jordan Lee"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// NoteResponse represents the data returned for a single note.
type NoteResponse struct {
	ID          int64       `json:"id" example:"15"`
	Title       string      `json:"title" example:"Algorithms Midterm Review"`
	Course      string      `json:"course" example:"CS201"`
	Semester    string      `json:"semester" example:"Fall 2024"`
	Description *string     `json:"description,omitempty"`
	FileName    string      `json:"fileName" example:"midterm_review.pdf"`
	FileURL     *string     `json:"fileUrl,omitempty"`
	Downloads   int64       `json:"downloads" example:"12"`
	Views       int64       `json:"views" example:"87"`
	UserID      int64       `json:"userId" example:"3"`
	Public      bool        `json:"public" example:"true"`
	Author      *AuthorInfo `json:"author,omitempty"`
	CreatedAt   string      `json:"createdAt" example:"2024-01-15T10:00:00Z"`
	UpdatedAt   string      `json:"updatedAt" example:"2024-01-16T11:30:00Z"`
}

// NoteListResponse represents the response for a list of notes.
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// DownloadResponse is returned by the download endpoint: the counter has been
// bumped and the URL is ready to fetch.
type DownloadResponse struct {
	FileURL   string `json:"fileUrl"`
	Downloads int64  `json:"downloads" example:"13"`
}
