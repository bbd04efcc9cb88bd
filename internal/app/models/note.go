package models

import "time"

// Note defines the note model based on the 'notes' table
type Note struct {
	ID          int64     `json:"id" db:"id" example:"15"`                                            // Unique identifier for the note
	Title       string    `json:"title" db:"title" example:"Algorithms Midterm Review"`               // Title of the note
	Course      string    `json:"course" db:"course" example:"CS201"`                                 // Course the note belongs to
	Semester    string    `json:"semester" db:"semester" example:"Fall 2024"`                         // Semester the note was taken in
	Description *string   `json:"description,omitempty" db:"description"`                             // Optional free-text description
	FileName    *string   `json:"fileName" db:"file_name" example:"midterm_review.pdf"`               // Original filename of the uploaded document
	FileURL     *string   `json:"fileUrl,omitempty" db:"file_url"`                                    // Storage path or absolute URL (nil until upload completes)
	Downloads   int64     `json:"downloads" db:"downloads" example:"12"`                              // Download counter, never decreases
	Views       int64     `json:"views" db:"views" example:"87"`                                      // View counter, never decreases
	UserID      int64     `json:"userId" db:"user_id" example:"3"`                                    // Owner of the note
	Public      bool      `json:"public" db:"public" example:"true"`                                  // Whether the note appears in the public listing
	CreatedAt   time.Time `json:"createdAt" db:"created_at" example:"2024-01-15T10:00:00Z"`           // Timestamp when the note was created
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-16T11:30:00Z"`           // Timestamp when the note was last updated
}
