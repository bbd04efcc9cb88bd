package auth

import (
	"context"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/repositories"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
)

// NoteOwnerStore is the lookup surface needed for ownership checks.
// *repositories.NoteRepository satisfies it.
type NoteOwnerStore interface {
	GetNoteByID(ctx context.Context, id int64) (*repositories.NoteDetails, error)
}

// AuthorizationService answers ownership questions for write operations
type AuthorizationService struct {
	notes NoteOwnerStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(notes NoteOwnerStore) *AuthorizationService {
	return &AuthorizationService{notes: notes}
}

// ValidateNoteOwnership checks that the user owns the note.
// Returns ErrNoteNotFound when the note does not exist and
// ErrPermissionDenied when it belongs to someone else.
func (s *AuthorizationService) ValidateNoteOwnership(ctx context.Context, noteID, userID int64) error {
	note, err := s.notes.GetNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
