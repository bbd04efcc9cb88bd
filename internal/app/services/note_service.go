package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/auth"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/repositories"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/filestorage"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/querycache"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/validation"
)

const downloadURLExpiry = 15 * time.Minute

// NoteStore is the persistence surface needed by the note service.
// *repositories.NoteRepository satisfies it.
type NoteStore interface {
	CreateNote(ctx context.Context, note *models.Note) (int64, error)
	GetNoteByID(ctx context.Context, id int64) (*repositories.NoteDetails, error)
	GetPublicNotes(ctx context.Context) ([]*repositories.NoteDetails, error)
	GetNotesByOwner(ctx context.Context, userID int64) ([]*repositories.NoteDetails, error)
	GetNotesByIDs(ctx context.Context, ids []int64) ([]*repositories.NoteDetails, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	IncrementDownloads(ctx context.Context, id int64) (int64, *string, error)
}

// NoteService defines the interface for note operations
type NoteService interface {
	ListPublicNotes(ctx context.Context) (*dto.NoteListResponse, error)
	ListOwnNotes(ctx context.Context, userID int64) (*dto.NoteListResponse, error)
	GetNote(ctx context.Context, id int64) (*dto.NoteResponse, error)
	CreateNote(ctx context.Context, userID int64, req *dto.CreateNoteRequest, file *multipart.FileHeader) (*dto.NoteResponse, error)
	UpdateNote(ctx context.Context, userID, id int64, req *dto.UpdateNoteRequest, file *multipart.FileHeader) (*dto.NoteResponse, error)
	DeleteNote(ctx context.Context, userID, id int64) error
	DownloadNote(ctx context.Context, id int64) (*dto.DownloadResponse, error)
}

// noteServiceImpl implements NoteService
type noteServiceImpl struct {
	noteRepo     NoteStore
	authzService *auth.AuthorizationService
	storage      filestorage.FileStorage
	cache        *querycache.Cache
}

// NewNoteService creates a new NoteService
func NewNoteService(
	noteRepo NoteStore,
	authzService *auth.AuthorizationService,
	storage filestorage.FileStorage,
	cache *querycache.Cache,
) NoteService {
	return &noteServiceImpl{
		noteRepo:     noteRepo,
		authzService: authzService,
		storage:      storage,
		cache:        cache,
	}
}

// toNoteResponse converts note details into a response DTO.
func toNoteResponse(note *repositories.NoteDetails) *dto.NoteResponse {
	resp := &dto.NoteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Course:      note.Course,
		Semester:    note.Semester,
		Description: note.Description,
		FileURL:     note.FileURL,
		Downloads:   note.Downloads,
		Views:       note.Views,
		UserID:      note.UserID,
		Public:      note.Public,
		CreatedAt:   note.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   note.UpdatedAt.Format(time.RFC3339),
	}
	if note.FileName != nil {
		resp.FileName = *note.FileName
	}
	if note.AuthorFullName != nil || note.AuthorAvatarURL != nil {
		resp.Author = &dto.AuthorInfo{
			FullName:  note.AuthorFullName,
			AvatarURL: note.AuthorAvatarURL,
		}
	}
	return resp
}

func toNoteListResponse(notes []*repositories.NoteDetails) *dto.NoteListResponse {
	responses := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, *toNoteResponse(note))
	}
	return &dto.NoteListResponse{Notes: responses}
}

// ListPublicNotes retrieves every public note, newest first
func (s *noteServiceImpl) ListPublicNotes(ctx context.Context) (*dto.NoteListResponse, error) {
	if cached, ok := s.cache.Get(querycache.KeyPublicNotes); ok {
		return cached.(*dto.NoteListResponse), nil
	}

	notes, err := s.noteRepo.GetPublicNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting public notes: %w", err)
	}

	resp := toNoteListResponse(notes)
	s.cache.Set(querycache.KeyPublicNotes, resp)
	return resp, nil
}

// ListOwnNotes retrieves all notes owned by the user, private ones included
func (s *noteServiceImpl) ListOwnNotes(ctx context.Context, userID int64) (*dto.NoteListResponse, error) {
	key := querycache.UserNotesKey(userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.NoteListResponse), nil
	}

	notes, err := s.noteRepo.GetNotesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user notes: %w", err)
	}

	resp := toNoteListResponse(notes)
	s.cache.Set(key, resp)
	return resp, nil
}

// GetNote retrieves a single note. A fresh read bumps the view counter in
// the background; the returned note still carries the count from before
// the bump.
func (s *noteServiceImpl) GetNote(ctx context.Context, id int64) (*dto.NoteResponse, error) {
	key := querycache.NoteKey(id)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.NoteResponse), nil
	}

	note, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toNoteResponse(note)
	s.cache.Set(key, resp)

	// A failed bump never fails the read.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.noteRepo.IncrementViews(bgCtx, id); err != nil {
			logger.Warn().Err(err).Int64("noteID", id).Msg("Failed to increment note views")
		}
	}()

	return resp, nil
}

// CreateNote creates a new note, storing the attached document if present
func (s *noteServiceImpl) CreateNote(ctx context.Context, userID int64, req *dto.CreateNoteRequest, file *multipart.FileHeader) (*dto.NoteResponse, error) {
	meta := validation.NoteMetadata{
		Title:       req.Title,
		Course:      req.Course,
		Semester:    req.Semester,
		Description: req.Description,
	}
	if file != nil {
		meta.FileName = file.Filename
	}
	if err := validation.ValidateNoteMetadata(meta); err != nil {
		return nil, err
	}
	if err := validation.ValidateNoteFile(file.Filename, file.Size); err != nil {
		return nil, err
	}

	note := &models.Note{
		Title:    req.Title,
		Course:   req.Course,
		Semester: req.Semester,
		UserID:   userID,
		Public:   true,
	}
	if req.Description != "" {
		note.Description = &req.Description
	}
	if req.Public != nil {
		note.Public = *req.Public
	}

	fileURL, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("notes/%d", userID))
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Failed to store note file")
		return nil, fmt.Errorf("error storing note file: %w", err)
	}
	note.FileName = &file.Filename
	note.FileURL = &fileURL

	id, err := s.noteRepo.CreateNote(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	s.cache.Invalidate(querycache.KeyPublicNotes, querycache.UserNotesKey(userID))

	created, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reading created note: %w", err)
	}
	return toNoteResponse(created), nil
}

// UpdateNote applies a partial metadata update, optionally replacing the
// stored document
func (s *noteServiceImpl) UpdateNote(ctx context.Context, userID, id int64, req *dto.UpdateNoteRequest, file *multipart.FileHeader) (*dto.NoteResponse, error) {
	if err := s.authzService.ValidateNoteOwnership(ctx, id, userID); err != nil {
		return nil, err
	}

	existing, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:          existing.ID,
		Title:       existing.Title,
		Course:      existing.Course,
		Semester:    existing.Semester,
		Description: existing.Description,
		FileName:    existing.FileName,
		FileURL:     existing.FileURL,
		UserID:      existing.UserID,
		Public:      existing.Public,
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Course != nil {
		note.Course = *req.Course
	}
	if req.Semester != nil {
		note.Semester = *req.Semester
	}
	if req.Description != nil {
		note.Description = req.Description
	}
	if req.Public != nil {
		note.Public = *req.Public
	}

	meta := validation.NoteMetadata{
		Title:    note.Title,
		Course:   note.Course,
		Semester: note.Semester,
	}
	if note.Description != nil {
		meta.Description = *note.Description
	}
	if note.FileName != nil {
		meta.FileName = *note.FileName
	}
	if file != nil {
		meta.FileName = file.Filename
	}
	if err := validation.ValidateNoteMetadata(meta); err != nil {
		return nil, err
	}

	if file != nil {
		if err := validation.ValidateNoteFile(file.Filename, file.Size); err != nil {
			return nil, err
		}
		fileURL, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("notes/%d", userID))
		if err != nil {
			logger.Error().Err(err).Int64("noteID", id).Msg("Failed to store replacement note file")
			return nil, fmt.Errorf("error storing note file: %w", err)
		}
		if existing.FileURL != nil {
			if err := s.storage.DeleteFile(*existing.FileURL); err != nil {
				logger.Warn().Err(err).Int64("noteID", id).Msg("Failed to delete replaced note file")
			}
		}
		note.FileName = &file.Filename
		note.FileURL = &fileURL
	}

	if err := s.noteRepo.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	s.cache.Invalidate(querycache.NoteKey(id), querycache.KeyPublicNotes, querycache.UserNotesKey(userID))

	updated, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reading updated note: %w", err)
	}
	return toNoteResponse(updated), nil
}

// DeleteNote removes a note and its stored document. Saved references held
// by other users are left behind and resolve to a missing note.
func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, id int64) error {
	if err := s.authzService.ValidateNoteOwnership(ctx, id, userID); err != nil {
		return err
	}

	existing, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.noteRepo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}

	if existing.FileURL != nil {
		if err := s.storage.DeleteFile(*existing.FileURL); err != nil {
			logger.Warn().Err(err).Int64("noteID", id).Msg("Failed to delete note file")
		}
	}

	s.cache.Invalidate(querycache.NoteKey(id), querycache.KeyPublicNotes, querycache.UserNotesKey(userID))
	s.cache.InvalidatePrefix(querycache.KeySavedPrefix)

	return nil
}

// DownloadNote bumps the download counter and hands back a short-lived URL
// for the stored document
func (s *noteServiceImpl) DownloadNote(ctx context.Context, id int64) (*dto.DownloadResponse, error) {
	downloads, fileURL, err := s.noteRepo.IncrementDownloads(ctx, id)
	if err != nil {
		return nil, err
	}
	if fileURL == nil {
		return nil, apperrors.NewBadRequestError("note has no attached file")
	}

	signedURL, err := s.storage.SignedURL(ctx, *fileURL, downloadURLExpiry)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Failed to sign download URL")
		return nil, fmt.Errorf("error signing download URL: %w", err)
	}

	s.cache.Invalidate(querycache.NoteKey(id), querycache.KeyPublicNotes)

	return &dto.DownloadResponse{
		FileURL:   signedURL,
		Downloads: downloads,
	}, nil
}
