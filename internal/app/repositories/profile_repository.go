package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
)

// ProfileRepository handles database operations for user profiles.
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetProfileByUserID retrieves a profile by user ID. A missing row is not
// an error: an empty profile carrying only the user ID is returned so that
// callers can render a user who never filled in their profile.
func (r *ProfileRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select(
		"id", "full_name", "avatar_url", "bio", "university", "course", "year",
		"created_at", "updated_at",
	).
		From("profiles").
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, err
	}

	var profile models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&profile.ID, &profile.FullName, &profile.AvatarURL, &profile.Bio,
		&profile.University, &profile.Course, &profile.Year,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.Profile{ID: userID}, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning profile row")
		return nil, err
	}

	return &profile, nil
}

// UpdateProfile updates only the provided fields of a user's profile.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, userID int64, fields models.ProfileUpdate) error {
	builder := r.sb.Update("profiles")

	updated := false
	if fields.FullName != nil {
		builder = builder.Set("full_name", *fields.FullName)
		updated = true
	}
	if fields.Bio != nil {
		builder = builder.Set("bio", *fields.Bio)
		updated = true
	}
	if fields.University != nil {
		builder = builder.Set("university", *fields.University)
		updated = true
	}
	if fields.Course != nil {
		builder = builder.Set("course", *fields.Course)
		updated = true
	}
	if fields.Year != nil {
		builder = builder.Set("year", *fields.Year)
		updated = true
	}
	if !updated {
		return nil
	}

	sql, args, err := builder.Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update profile query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdateAvatarURL points the profile's avatar at a newly stored file.
func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("avatar_url", avatarURL).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update avatar URL SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update avatar URL query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}
