package services

// Services defined in this package:
// - AuthService: registration, login and token lifecycle
// - NoteService: note CRUD, counters and downloads
// - SavedNoteService: per-user saved-note references
// - ProfileService: profile reads, edits and avatar uploads

// Services holds all the service instances
type Services struct {
	AuthService      AuthService
	NoteService      NoteService
	SavedNoteService SavedNoteService
	ProfileService   ProfileService
}
