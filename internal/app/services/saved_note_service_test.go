package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/querycache"
)

func newSavedNoteServiceForTest(savedStore *fakeSavedNoteStore, noteStore *fakeNoteStore) (SavedNoteService, *querycache.Cache) {
	cache := querycache.New(time.Minute)
	return NewSavedNoteService(savedStore, noteStore, cache), cache
}

func TestSaveNote(t *testing.T) {
	noteStore := newFakeNoteStore()
	note := seedNote(noteStore, 1, "shared", true)

	savedStore := newFakeSavedNoteStore()
	svc, _ := newSavedNoteServiceForTest(savedStore, noteStore)

	resp, err := svc.SaveNote(context.Background(), 4, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.UserID)
	assert.Equal(t, note.ID, resp.NoteID)
	require.NotNil(t, resp.Note)
	assert.Equal(t, "shared", resp.Note.Title)
}

func TestSaveNoteIdempotent(t *testing.T) {
	noteStore := newFakeNoteStore()
	note := seedNote(noteStore, 1, "shared", true)

	savedStore := newFakeSavedNoteStore()
	svc, _ := newSavedNoteServiceForTest(savedStore, noteStore)

	first, err := svc.SaveNote(context.Background(), 4, note.ID)
	require.NoError(t, err)

	second, err := svc.SaveNote(context.Background(), 4, note.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "saving twice returns the existing reference")

	list, err := svc.ListSavedNotes(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, list.SavedNotes, 1)
}

func TestSaveNoteMissingNote(t *testing.T) {
	svc, _ := newSavedNoteServiceForTest(newFakeSavedNoteStore(), newFakeNoteStore())

	_, err := svc.SaveNote(context.Background(), 4, 404)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestUnsaveNoteAbsentReference(t *testing.T) {
	svc, _ := newSavedNoteServiceForTest(newFakeSavedNoteStore(), newFakeNoteStore())

	assert.NoError(t, svc.UnsaveNote(context.Background(), 4, 404))
}

func TestUnsaveNote(t *testing.T) {
	noteStore := newFakeNoteStore()
	note := seedNote(noteStore, 1, "shared", true)

	savedStore := newFakeSavedNoteStore()
	svc, _ := newSavedNoteServiceForTest(savedStore, noteStore)

	_, err := svc.SaveNote(context.Background(), 4, note.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UnsaveNote(context.Background(), 4, note.ID))

	status, err := svc.IsNoteSaved(context.Background(), 4, note.ID)
	require.NoError(t, err)
	assert.False(t, status.Saved)
}

func TestListSavedNotesWithOrphans(t *testing.T) {
	noteStore := newFakeNoteStore()
	alive := seedNote(noteStore, 1, "alive", true)
	doomed := seedNote(noteStore, 1, "doomed", true)

	savedStore := newFakeSavedNoteStore()
	svc, _ := newSavedNoteServiceForTest(savedStore, noteStore)

	_, err := svc.SaveNote(context.Background(), 4, alive.ID)
	require.NoError(t, err)
	_, err = svc.SaveNote(context.Background(), 4, doomed.ID)
	require.NoError(t, err)

	// The note disappears after it was saved.
	require.NoError(t, noteStore.DeleteNote(context.Background(), doomed.ID))

	list, err := svc.ListSavedNotes(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, list.SavedNotes, 2)

	for _, entry := range list.SavedNotes {
		switch entry.NoteID {
		case alive.ID:
			require.NotNil(t, entry.Note)
			assert.Equal(t, "alive", entry.Note.Title)
		case doomed.ID:
			assert.Nil(t, entry.Note, "orphaned reference carries a null note")
		default:
			t.Fatalf("unexpected saved note id %d", entry.NoteID)
		}
	}
}

func TestIsNoteSavedCached(t *testing.T) {
	noteStore := newFakeNoteStore()
	note := seedNote(noteStore, 1, "shared", true)

	savedStore := newFakeSavedNoteStore()
	svc, cache := newSavedNoteServiceForTest(savedStore, noteStore)

	status, err := svc.IsNoteSaved(context.Background(), 4, note.ID)
	require.NoError(t, err)
	assert.False(t, status.Saved)

	// Saving through the service invalidates the cached status.
	_, err = svc.SaveNote(context.Background(), 4, note.ID)
	require.NoError(t, err)

	_, ok := cache.Get(querycache.IsSavedKey(4, note.ID))
	assert.False(t, ok)

	status, err = svc.IsNoteSaved(context.Background(), 4, note.ID)
	require.NoError(t, err)
	assert.True(t, status.Saved)
}

func TestListSavedNotesCached(t *testing.T) {
	noteStore := newFakeNoteStore()
	note := seedNote(noteStore, 1, "shared", true)

	savedStore := newFakeSavedNoteStore()
	svc, _ := newSavedNoteServiceForTest(savedStore, noteStore)

	_, err := svc.SaveNote(context.Background(), 4, note.ID)
	require.NoError(t, err)

	first, err := svc.ListSavedNotes(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, first.SavedNotes, 1)

	// A direct store write stays invisible while the listing is cached.
	_, err = savedStore.Save(context.Background(), 4, 999)
	require.NoError(t, err)

	second, err := svc.ListSavedNotes(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, second.SavedNotes, 1)
}
