package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/querycache"
)

func newProfileServiceForTest(store *fakeProfileStore, storage *fakeStorage) (ProfileService, *querycache.Cache) {
	cache := querycache.New(time.Minute)
	return NewProfileService(store, storage, cache), cache
}

func seedProfile(store *fakeProfileStore, userID int64, fullName string) {
	store.profiles[userID] = &models.Profile{ID: userID, FullName: &fullName}
}

func bioUpdate(bio string) *dto.UpdateProfileRequest {
	return &dto.UpdateProfileRequest{Bio: &bio}
}

func TestGetProfile(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, 3, "Jordan Lee")

	svc, _ := newProfileServiceForTest(store, &fakeStorage{})

	resp, err := svc.GetProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	require.NotNil(t, resp.FullName)
	assert.Equal(t, "Jordan Lee", *resp.FullName)
}

func TestGetProfileNeverFilledIn(t *testing.T) {
	svc, _ := newProfileServiceForTest(newFakeProfileStore(), &fakeStorage{})

	resp, err := svc.GetProfile(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Nil(t, resp.FullName)
	assert.Nil(t, resp.AvatarURL)
}

func TestUpdateProfileReadAfterWrite(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, 3, "Jordan Lee")

	svc, _ := newProfileServiceForTest(store, &fakeStorage{})

	// Prime the cache with the old state.
	before, err := svc.GetProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, before.Bio)

	bio := "Third-year CS student"
	resp, err := svc.UpdateProfile(context.Background(), 3, bioUpdate(bio))
	require.NoError(t, err)
	require.NotNil(t, resp.Bio)
	assert.Equal(t, bio, *resp.Bio)

	// The next read sees the new value, not the primed cache entry.
	after, err := svc.GetProfile(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, after.Bio)
	assert.Equal(t, bio, *after.Bio)
	require.NotNil(t, after.FullName)
	assert.Equal(t, "Jordan Lee", *after.FullName, "untouched fields survive the partial update")
}

func TestUpdateProfileRejectsOversizedField(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, 3, "Jordan Lee")

	svc, _ := newProfileServiceForTest(store, &fakeStorage{})

	long := strings.Repeat("x", 501)
	_, err := svc.UpdateProfile(context.Background(), 3, bioUpdate(long))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUploadAvatar(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, 3, "Jordan Lee")

	storage := &fakeStorage{}
	svc, _ := newProfileServiceForTest(store, storage)

	resp, err := svc.UploadAvatar(context.Background(), 3, fileHeader("me.png", 1024))
	require.NoError(t, err)
	require.NotNil(t, resp.AvatarURL)
	assert.Equal(t, "/uploads/avatars/3/avatar.png", *resp.AvatarURL)
	assert.Equal(t, 1, storage.savedCount())
}

func TestUploadAvatarMissingFile(t *testing.T) {
	svc, _ := newProfileServiceForTest(newFakeProfileStore(), &fakeStorage{})

	_, err := svc.UploadAvatar(context.Background(), 3, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUploadAvatarRejectsBadImage(t *testing.T) {
	storage := &fakeStorage{}
	svc, _ := newProfileServiceForTest(newFakeProfileStore(), storage)

	_, err := svc.UploadAvatar(context.Background(), 3, fileHeader("resume.pdf", 1024))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UploadAvatar(context.Background(), 3, fileHeader("huge.png", 3<<20))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.Equal(t, 0, storage.savedCount())
}

func TestUploadAvatarPartialFailure(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, 3, "Jordan Lee")
	store.updateAvatarErr = assert.AnError

	storage := &fakeStorage{}
	svc, _ := newProfileServiceForTest(store, storage)

	_, err := svc.UploadAvatar(context.Background(), 3, fileHeader("me.png", 1024))
	assert.ErrorIs(t, err, apperrors.ErrAvatarNotApplied)

	// The blob was stored and stays in place for an overwriting retry.
	assert.Equal(t, 1, storage.savedCount())

	store.updateAvatarErr = nil
	resp, err := svc.UploadAvatar(context.Background(), 3, fileHeader("me.png", 1024))
	require.NoError(t, err)
	require.NotNil(t, resp.AvatarURL)
	assert.Equal(t, "/uploads/avatars/3/avatar.png", *resp.AvatarURL)
}
