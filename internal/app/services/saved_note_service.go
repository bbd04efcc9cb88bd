package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/repositories"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/querycache"
)

// SavedNoteStore is the persistence surface needed by the saved-note
// service. *repositories.SavedNoteRepository satisfies it.
type SavedNoteStore interface {
	IsSaved(ctx context.Context, userID, noteID int64) (bool, error)
	Save(ctx context.Context, userID, noteID int64) (*models.SavedNote, error)
	Unsave(ctx context.Context, userID, noteID int64) error
	ListByUser(ctx context.Context, userID int64) ([]*models.SavedNote, error)
}

// SavedNoteService defines the interface for saved-note operations
type SavedNoteService interface {
	SaveNote(ctx context.Context, userID, noteID int64) (*dto.SavedNoteResponse, error)
	UnsaveNote(ctx context.Context, userID, noteID int64) error
	ListSavedNotes(ctx context.Context, userID int64) (*dto.SavedNoteListResponse, error)
	IsNoteSaved(ctx context.Context, userID, noteID int64) (*dto.SavedStatusResponse, error)
}

// savedNoteServiceImpl implements SavedNoteService
type savedNoteServiceImpl struct {
	savedRepo SavedNoteStore
	noteRepo  NoteStore
	cache     *querycache.Cache
}

// NewSavedNoteService creates a new SavedNoteService
func NewSavedNoteService(savedRepo SavedNoteStore, noteRepo NoteStore, cache *querycache.Cache) SavedNoteService {
	return &savedNoteServiceImpl{
		savedRepo: savedRepo,
		noteRepo:  noteRepo,
		cache:     cache,
	}
}

func toSavedNoteResponse(saved *models.SavedNote, note *repositories.NoteDetails) *dto.SavedNoteResponse {
	resp := &dto.SavedNoteResponse{
		ID:        saved.ID,
		UserID:    saved.UserID,
		NoteID:    saved.NoteID,
		CreatedAt: saved.CreatedAt.Format(time.RFC3339),
	}
	if note != nil {
		resp.Note = toNoteResponse(note)
	}
	return resp
}

// SaveNote records that the user saved the note. Saving twice is a no-op
// and returns the existing reference.
func (s *savedNoteServiceImpl) SaveNote(ctx context.Context, userID, noteID int64) (*dto.SavedNoteResponse, error) {
	// The note must exist at save time; orphans only arise from later
	// deletions.
	note, err := s.noteRepo.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	saved, err := s.savedRepo.Save(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("error saving note: %w", err)
	}

	s.cache.Invalidate(querycache.SavedNotesKey(userID), querycache.IsSavedKey(userID, noteID))

	return toSavedNoteResponse(saved, note), nil
}

// UnsaveNote removes the user's saved reference. Removing a reference that
// was never there succeeds quietly.
func (s *savedNoteServiceImpl) UnsaveNote(ctx context.Context, userID, noteID int64) error {
	if err := s.savedRepo.Unsave(ctx, userID, noteID); err != nil {
		return fmt.Errorf("error unsaving note: %w", err)
	}

	s.cache.Invalidate(querycache.SavedNotesKey(userID), querycache.IsSavedKey(userID, noteID))

	return nil
}

// ListSavedNotes returns the user's saved references, newest first, each
// carrying the full note when it still exists. References to deleted notes
// stay in the list with a null note so that clients can offer cleanup.
func (s *savedNoteServiceImpl) ListSavedNotes(ctx context.Context, userID int64) (*dto.SavedNoteListResponse, error) {
	key := querycache.SavedNotesKey(userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.SavedNoteListResponse), nil
	}

	saved, err := s.savedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing saved notes: %w", err)
	}

	ids := make([]int64, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.NoteID)
	}

	notes, err := s.noteRepo.GetNotesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching saved note details: %w", err)
	}
	byID := make(map[int64]*repositories.NoteDetails, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}

	responses := make([]dto.SavedNoteResponse, 0, len(saved))
	for _, sv := range saved {
		responses = append(responses, *toSavedNoteResponse(sv, byID[sv.NoteID]))
	}

	resp := &dto.SavedNoteListResponse{SavedNotes: responses}
	s.cache.Set(key, resp)
	return resp, nil
}

// IsNoteSaved reports whether the user has saved the note
func (s *savedNoteServiceImpl) IsNoteSaved(ctx context.Context, userID, noteID int64) (*dto.SavedStatusResponse, error) {
	key := querycache.IsSavedKey(userID, noteID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.SavedStatusResponse), nil
	}

	savedFlag, err := s.savedRepo.IsSaved(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("error checking saved status: %w", err)
	}

	resp := &dto.SavedStatusResponse{Saved: savedFlag}
	s.cache.Set(key, resp)
	return resp, nil
}
