package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
)

// SavedNoteRepository handles database operations for saved note references.
type SavedNoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSavedNoteRepository creates a new SavedNoteRepository.
func NewSavedNoteRepository(db *pgxpool.Pool) *SavedNoteRepository {
	return &SavedNoteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// IsSaved reports whether the user has saved the given note.
func (r *SavedNoteRepository) IsSaved(ctx context.Context, userID, noteID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("saved_notes").
		Where(squirrel.Eq{"user_id": userID, "note_id": noteID}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building is saved SQL")
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Int64("noteID", noteID).Msg("Error checking saved status")
		return false, err
	}
	return true, nil
}

// Save records that the user saved the note. Saving an already saved note
// is a no-op; the existing row is returned in either case. The unique
// constraint on (user_id, note_id) makes concurrent saves collapse into a
// single row.
func (r *SavedNoteRepository) Save(ctx context.Context, userID, noteID int64) (*models.SavedNote, error) {
	sql, args, err := r.sb.Insert("saved_notes").
		Columns("user_id", "note_id").
		Values(userID, noteID).
		Suffix("ON CONFLICT (user_id, note_id) DO NOTHING").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building save note SQL")
		return nil, err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("noteID", noteID).Msg("Error executing save note query")
		return nil, err
	}

	return r.getByUserAndNote(ctx, userID, noteID)
}

func (r *SavedNoteRepository) getByUserAndNote(ctx context.Context, userID, noteID int64) (*models.SavedNote, error) {
	sql, args, err := r.sb.Select("id", "user_id", "note_id", "created_at").
		From("saved_notes").
		Where(squirrel.Eq{"user_id": userID, "note_id": noteID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get saved note SQL")
		return nil, err
	}

	var saved models.SavedNote
	err = r.db.QueryRow(ctx, sql, args...).Scan(&saved.ID, &saved.UserID, &saved.NoteID, &saved.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("noteID", noteID).Msg("Error scanning saved note row")
		return nil, err
	}
	return &saved, nil
}

// Unsave removes the user's saved reference to the note. Removing a
// reference that does not exist succeeds without touching any rows.
func (r *SavedNoteRepository) Unsave(ctx context.Context, userID, noteID int64) error {
	sql, args, err := r.sb.Delete("saved_notes").
		Where(squirrel.Eq{"user_id": userID, "note_id": noteID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building unsave note SQL")
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("noteID", noteID).Msg("Error executing unsave note query")
		return err
	}

	return nil
}

// ListByUser retrieves the user's saved references, most recently saved first.
func (r *SavedNoteRepository) ListByUser(ctx context.Context, userID int64) ([]*models.SavedNote, error) {
	sql, args, err := r.sb.Select("id", "user_id", "note_id", "created_at").
		From("saved_notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list saved notes SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list saved notes query")
		return nil, err
	}
	defer rows.Close()

	saved := make([]*models.SavedNote, 0)
	for rows.Next() {
		var s models.SavedNote
		if err := rows.Scan(&s.ID, &s.UserID, &s.NoteID, &s.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning one saved note during list")
			continue
		}
		saved = append(saved, &s)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through saved note rows")
		return nil, err
	}

	return saved, nil
}
