package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/repositories"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. Plain fakes keep the tests
// readable: what each fake does is right here, not behind a mock DSL.

type fakeNoteStore struct {
	mu     sync.Mutex
	notes  map[int64]*repositories.NoteDetails
	nextID int64

	viewBumped chan int64

	createErr   error
	getErr      error
	viewErr     error
	downloadErr error
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{
		notes:      make(map[int64]*repositories.NoteDetails),
		nextID:     1,
		viewBumped: make(chan int64, 16),
	}
}

func (f *fakeNoteStore) add(note *repositories.NoteDetails) *repositories.NoteDetails {
	f.mu.Lock()
	defer f.mu.Unlock()
	if note.ID == 0 {
		note.ID = f.nextID
		f.nextID++
	} else if note.ID >= f.nextID {
		f.nextID = note.ID + 1
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
		note.UpdatedAt = note.CreatedAt
	}
	f.notes[note.ID] = note
	return note
}

func (f *fakeNoteStore) CreateNote(_ context.Context, note *models.Note) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	details := &repositories.NoteDetails{
		Title:       note.Title,
		Course:      note.Course,
		Semester:    note.Semester,
		Description: note.Description,
		FileName:    note.FileName,
		FileURL:     note.FileURL,
		UserID:      note.UserID,
		Public:      note.Public,
	}
	return f.add(details).ID, nil
}

func (f *fakeNoteStore) GetNoteByID(_ context.Context, id int64) (*repositories.NoteDetails, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}
	copied := *note
	return &copied, nil
}

func (f *fakeNoteStore) GetPublicNotes(_ context.Context) ([]*repositories.NoteDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repositories.NoteDetails
	for _, n := range f.notes {
		if n.Public {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeNoteStore) GetNotesByOwner(_ context.Context, userID int64) ([]*repositories.NoteDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repositories.NoteDetails
	for _, n := range f.notes {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeNoteStore) GetNotesByIDs(_ context.Context, ids []int64) ([]*repositories.NoteDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repositories.NoteDetails, 0, len(ids))
	for _, id := range ids {
		if n, ok := f.notes[id]; ok {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeNoteStore) UpdateNote(_ context.Context, note *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.notes[note.ID]
	if !ok {
		return apperrors.ErrNoteNotFound
	}
	existing.Title = note.Title
	existing.Course = note.Course
	existing.Semester = note.Semester
	existing.Description = note.Description
	existing.FileName = note.FileName
	existing.FileURL = note.FileURL
	existing.Public = note.Public
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeNoteStore) DeleteNote(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[id]; !ok {
		return apperrors.ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeNoteStore) IncrementViews(_ context.Context, id int64) error {
	defer func() {
		select {
		case f.viewBumped <- id:
		default:
		}
	}()
	if f.viewErr != nil {
		return f.viewErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.notes[id]; ok {
		n.Views++
	}
	return nil
}

func (f *fakeNoteStore) IncrementDownloads(_ context.Context, id int64) (int64, *string, error) {
	if f.downloadErr != nil {
		return 0, nil, f.downloadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok {
		return 0, nil, apperrors.ErrNoteNotFound
	}
	n.Downloads++
	return n.Downloads, n.FileURL, nil
}

type savedKey struct {
	userID, noteID int64
}

type fakeSavedNoteStore struct {
	mu     sync.Mutex
	saved  map[savedKey]*models.SavedNote
	nextID int64

	saveErr error
	listErr error
}

func newFakeSavedNoteStore() *fakeSavedNoteStore {
	return &fakeSavedNoteStore{saved: make(map[savedKey]*models.SavedNote), nextID: 1}
}

func (f *fakeSavedNoteStore) IsSaved(_ context.Context, userID, noteID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[savedKey{userID, noteID}]
	return ok, nil
}

func (f *fakeSavedNoteStore) Save(_ context.Context, userID, noteID int64) (*models.SavedNote, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := savedKey{userID, noteID}
	if existing, ok := f.saved[key]; ok {
		copied := *existing
		return &copied, nil
	}
	entry := &models.SavedNote{ID: f.nextID, UserID: userID, NoteID: noteID, CreatedAt: time.Now()}
	f.nextID++
	f.saved[key] = entry
	copied := *entry
	return &copied, nil
}

func (f *fakeSavedNoteStore) Unsave(_ context.Context, userID, noteID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, savedKey{userID, noteID})
	return nil
}

func (f *fakeSavedNoteStore) ListByUser(_ context.Context, userID int64) ([]*models.SavedNote, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SavedNote
	for key, entry := range f.saved {
		if key.userID == userID {
			copied := *entry
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[int64]*models.Profile

	updateErr       error
	updateAvatarErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[int64]*models.Profile)}
}

func (f *fakeProfileStore) GetProfileByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	// Missing rows resolve to an empty profile, matching the repository.
	return &models.Profile{ID: userID}, nil
}

func (f *fakeProfileStore) UpdateProfile(_ context.Context, userID int64, fields models.ProfileUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	if fields.FullName != nil {
		p.FullName = fields.FullName
	}
	if fields.Bio != nil {
		p.Bio = fields.Bio
	}
	if fields.University != nil {
		p.University = fields.University
	}
	if fields.Course != nil {
		p.Course = fields.Course
	}
	if fields.Year != nil {
		p.Year = fields.Year
	}
	return nil
}

func (f *fakeProfileStore) UpdateAvatarURL(_ context.Context, userID int64, avatarURL string) error {
	if f.updateAvatarErr != nil {
		return f.updateAvatarErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.AvatarURL = &avatarURL
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string

	saveErr error
	signErr error
}

func (f *fakeStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := fmt.Sprintf("/uploads/%s/%s", subPath, fileHeader.Filename)
	f.mu.Lock()
	f.saved = append(f.saved, url)
	f.mu.Unlock()
	return url, nil
}

func (f *fakeStorage) SaveFileAs(fileHeader *multipart.FileHeader, subPath, filename string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := fmt.Sprintf("/uploads/%s/%s", subPath, filename)
	f.mu.Lock()
	f.saved = append(f.saved, url)
	f.mu.Unlock()
	return url, nil
}

func (f *fakeStorage) SignedURL(_ context.Context, fileURL string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return fileURL + "?signed", nil
}

func (f *fakeStorage) DeleteFile(filePath string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, filePath)
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeStorage) deletedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64

	lastLoginErr error
	lastLoginFor []int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[int64]*models.User),
		nextID:  1,
	}
}

func (f *fakeUserStore) CreateUserWithProfile(_ context.Context, user *models.User, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return 0, apperrors.ErrEmailAlreadyExists
	}
	stored := *user
	stored.ID = f.nextID
	stored.IsActive = true
	f.nextID++
	f.byEmail[stored.Email] = &stored
	f.byID[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLoginFor = append(f.lastLoginFor, userID)
	return f.lastLoginErr
}

type fakeTokenStore struct {
	mu      sync.Mutex
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]int64), revoked: make(map[string]bool)}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetTokenOwner(_ context.Context, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if f.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	return userID, nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, owner := range f.tokens {
		if owner == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

func fileHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}
