package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
)

// NoteDetails includes a note together with its author's profile fields.
type NoteDetails struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Course          string    `db:"course" json:"course"`
	Semester        string    `db:"semester" json:"semester"`
	Description     *string   `db:"description" json:"description"`
	FileName        *string   `db:"file_name" json:"fileName"`
	FileURL         *string   `db:"file_url" json:"fileUrl"`
	Downloads       int64     `db:"downloads" json:"downloads"`
	Views           int64     `db:"views" json:"views"`
	UserID          int64     `db:"user_id" json:"userId"`
	Public          bool      `db:"public" json:"public"`
	AuthorFullName  *string   `db:"author_full_name" json:"authorFullName"`
	AuthorAvatarURL *string   `db:"author_avatar_url" json:"authorAvatarUrl"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// NoteRepository handles database operations for notes.
type NoteRepository struct {
	DB *pgxpool.Pool
}

// NewNoteRepository creates a new instance of NoteRepository.
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{DB: db}
}

// Common select query builder for notes joined with the author profile.
func (r *NoteRepository) selectNoteDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"n.id", "n.title", "n.course", "n.semester", "n.description",
		"n.file_name", "n.file_url", "n.downloads", "n.views",
		"n.user_id", "n.public",
		"p.full_name as author_full_name", "p.avatar_url as author_avatar_url",
		"n.created_at", "n.updated_at",
	).From("notes n").
		LeftJoin("profiles p ON n.user_id = p.id").
		PlaceholderFormat(squirrel.Dollar)
}

// ScanNoteDetails scans a row into a NoteDetails struct.
func ScanNoteDetails(row pgx.Row) (*NoteDetails, error) {
	var note NoteDetails
	err := row.Scan(
		&note.ID, &note.Title, &note.Course, &note.Semester, &note.Description,
		&note.FileName, &note.FileURL, &note.Downloads, &note.Views,
		&note.UserID, &note.Public,
		&note.AuthorFullName, &note.AuthorAvatarURL,
		&note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		logger.Error().Err(err).Msg("Error scanning note details")
		return nil, err
	}
	return &note, nil
}

// CreateNote inserts a new note and returns its ID.
func (r *NoteRepository) CreateNote(ctx context.Context, note *models.Note) (int64, error) {
	sql, args, err := squirrel.Insert("notes").
		Columns("title", "course", "semester", "description", "file_name", "file_url", "user_id", "public").
		Values(note.Title, note.Course, note.Semester, note.Description, note.FileName, note.FileURL, note.UserID, note.Public).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create note SQL")
		return 0, err
	}

	var id int64
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create note query")
		return 0, err
	}

	return id, nil
}

// GetNoteByID retrieves a single note by its ID with author details.
func (r *NoteRepository) GetNoteByID(ctx context.Context, id int64) (*NoteDetails, error) {
	sqlBuilder := r.selectNoteDetailsQuery().Where(squirrel.Eq{"n.id": id})
	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get note by ID SQL")
		return nil, err
	}

	row := r.DB.QueryRow(ctx, sqlStr, args...)
	return ScanNoteDetails(row)
}

// GetPublicNotes retrieves all public notes, newest first.
func (r *NoteRepository) GetPublicNotes(ctx context.Context) ([]*NoteDetails, error) {
	sqlBuilder := r.selectNoteDetailsQuery().
		Where(squirrel.Eq{"n.public": true}).
		OrderBy("n.created_at DESC")
	return r.queryNoteDetails(ctx, sqlBuilder)
}

// GetNotesByOwner retrieves all notes belonging to a user, newest first.
// Both public and private notes are included.
func (r *NoteRepository) GetNotesByOwner(ctx context.Context, userID int64) ([]*NoteDetails, error) {
	sqlBuilder := r.selectNoteDetailsQuery().
		Where(squirrel.Eq{"n.user_id": userID}).
		OrderBy("n.created_at DESC")
	return r.queryNoteDetails(ctx, sqlBuilder)
}

// GetNotesByIDs retrieves notes matching the given IDs in a single query.
// Missing IDs are silently skipped; the caller decides how to handle gaps.
func (r *NoteRepository) GetNotesByIDs(ctx context.Context, ids []int64) ([]*NoteDetails, error) {
	if len(ids) == 0 {
		return []*NoteDetails{}, nil
	}
	sqlBuilder := r.selectNoteDetailsQuery().Where(squirrel.Eq{"n.id": ids})
	return r.queryNoteDetails(ctx, sqlBuilder)
}

func (r *NoteRepository) queryNoteDetails(ctx context.Context, sqlBuilder squirrel.SelectBuilder) ([]*NoteDetails, error) {
	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building note list SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing note list query")
		return nil, err
	}
	defer rows.Close()

	notes := make([]*NoteDetails, 0)
	for rows.Next() {
		note, err := ScanNoteDetails(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one note during list")
			continue
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through note rows")
		return nil, err
	}

	return notes, nil
}

// UpdateNote updates the metadata of an existing note.
func (r *NoteRepository) UpdateNote(ctx context.Context, note *models.Note) error {
	sql, args, err := squirrel.Update("notes").
		Set("title", note.Title).
		Set("course", note.Course).
		Set("semester", note.Semester).
		Set("description", note.Description).
		Set("file_name", note.FileName).
		Set("file_url", note.FileURL).
		Set("public", note.Public).
		// updated_at is handled by trigger
		Where(squirrel.Eq{"id": note.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update note SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update note query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}

// DeleteNote deletes a note by its ID. Saved references to the note are
// intentionally left in place and resolve to a missing note on read.
func (r *NoteRepository) DeleteNote(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("notes").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete note SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete note query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}

// IncrementViews atomically bumps the view counter of a note.
func (r *NoteRepository) IncrementViews(ctx context.Context, id int64) error {
	cmdTag, err := r.DB.Exec(ctx, "UPDATE notes SET views = views + 1 WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Error incrementing note views")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// IncrementDownloads atomically bumps the download counter of a note and
// returns the new count together with the stored file URL.
func (r *NoteRepository) IncrementDownloads(ctx context.Context, id int64) (int64, *string, error) {
	var downloads int64
	var fileURL *string
	err := r.DB.QueryRow(ctx,
		"UPDATE notes SET downloads = downloads + 1 WHERE id = $1 RETURNING downloads, file_url", id,
	).Scan(&downloads, &fileURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, apperrors.ErrNoteNotFound
		}
		logger.Error().Err(err).Int64("noteID", id).Msg("Error incrementing note downloads")
		return 0, nil, err
	}
	return downloads, fileURL, nil
}
