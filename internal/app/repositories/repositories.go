package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository      *UserRepository
	TokenRepository     *TokenRepository
	NoteRepository      *NoteRepository
	SavedNoteRepository *SavedNoteRepository
	ProfileRepository   *ProfileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		TokenRepository:     NewTokenRepository(db),
		NoteRepository:      NewNoteRepository(db),
		SavedNoteRepository: NewSavedNoteRepository(db),
		ProfileRepository:   NewProfileRepository(db),
	}
}
