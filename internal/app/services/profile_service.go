package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/filestorage"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/querycache"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/validation"
)

// ProfileStore is the persistence surface needed by the profile service.
// *repositories.ProfileRepository satisfies it.
type ProfileStore interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, fields models.ProfileUpdate) error
	UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) error
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*dto.ProfileResponse, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profileRepo ProfileStore
	storage     filestorage.FileStorage
	cache       *querycache.Cache
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo ProfileStore, storage filestorage.FileStorage, cache *querycache.Cache) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		storage:     storage,
		cache:       cache,
	}
}

func toProfileResponse(profile *models.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:         profile.ID,
		FullName:   profile.FullName,
		AvatarURL:  profile.AvatarURL,
		Bio:        profile.Bio,
		University: profile.University,
		Course:     profile.Course,
		Year:       profile.Year,
	}
}

// GetProfile retrieves a user's profile. A user who never filled in their
// profile still resolves to an empty profile carrying their ID.
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	key := querycache.ProfileKey(userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.ProfileResponse), nil
	}

	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting profile: %w", err)
	}

	resp := toProfileResponse(profile)
	s.cache.Set(key, resp)
	return resp, nil
}

// UpdateProfile applies a partial update to the user's own profile
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	fields := validation.ProfileFields{
		FullName:   req.FullName,
		Bio:        req.Bio,
		University: req.University,
		Course:     req.Course,
		Year:       req.Year,
	}
	if err := validation.ValidateProfileFields(fields); err != nil {
		return nil, err
	}

	update := models.ProfileUpdate{
		FullName:   req.FullName,
		Bio:        req.Bio,
		University: req.University,
		Course:     req.Course,
		Year:       req.Year,
	}
	if err := s.profileRepo.UpdateProfile(ctx, userID, update); err != nil {
		return nil, err
	}

	s.cache.Invalidate(querycache.ProfileKey(userID))

	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading updated profile: %w", err)
	}
	resp := toProfileResponse(profile)
	s.cache.Set(querycache.ProfileKey(userID), resp)
	return resp, nil
}

// UploadAvatar stores a new avatar image and points the profile at it.
// The stored path is fixed per user, so a retry after a partial failure
// overwrites the stranded blob instead of leaking another one.
func (s *profileServiceImpl) UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*dto.ProfileResponse, error) {
	if file == nil {
		return nil, apperrors.NewValidationError("avatar", "Please select an image to upload")
	}
	if err := validation.ValidateAvatarFile(file.Filename, file.Size); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	avatarURL, err := s.storage.SaveFileAs(file, fmt.Sprintf("avatars/%d", userID), "avatar"+ext)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Failed to store avatar")
		return nil, fmt.Errorf("error storing avatar: %w", err)
	}

	if err := s.profileRepo.UpdateAvatarURL(ctx, userID, avatarURL); err != nil {
		// The blob is in place but the profile still points at the old
		// avatar. Surface the partial failure so the client can retry.
		logger.Error().Err(err).Int64("userID", userID).Msg("Avatar stored but profile update failed")
		return nil, apperrors.ErrAvatarNotApplied
	}

	s.cache.Invalidate(querycache.ProfileKey(userID))

	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading updated profile: %w", err)
	}
	return toProfileResponse(profile), nil
}
