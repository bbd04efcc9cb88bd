package models

import "time"

// SavedNote defines the bookmark relation based on the 'saved_notes' table.
// At most one row exists per (user_id, note_id) pair, enforced by a unique
// constraint in the schema.
type SavedNote struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	NoteID    int64     `json:"noteId" db:"note_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
