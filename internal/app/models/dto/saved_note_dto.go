package dto

// SavedNoteResponse represents one saved-note entry. Note is nil when the
// referenced note has been deleted since it was saved; callers decide whether
// to hide or specially render orphaned saves.
type SavedNoteResponse struct {
	ID        int64         `json:"id" example:"7"`
	UserID    int64         `json:"userId" example:"4"`
	NoteID    int64         `json:"noteId" example:"15"`
	CreatedAt string        `json:"createdAt" example:"2024-02-01T09:00:00Z"`
	Note      *NoteResponse `json:"note"`
}

// SavedNoteListResponse represents the response for a user's saved notes.
type SavedNoteListResponse struct {
	SavedNotes []SavedNoteResponse `json:"savedNotes"`
}

// SavedStatusResponse reports whether the requesting user has saved a note.
type SavedStatusResponse struct {
	Saved bool `json:"saved" example:"true"`
}
