package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/dberrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
)

// UserRepository handles account database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateUserWithProfile inserts a new account and its profile row in a
// single transaction. The profile id mirrors the user id so that every
// account has an addressable profile from the moment it exists.
func (r *UserRepository) CreateUserWithProfile(ctx context.Context, user *models.User, fullName string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error starting create user transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertUser, args, err := r.sb.Insert("users").
		Columns("email", "password", "is_active").
		Values(user.Email, user.Password, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, err
	}

	var userID int64
	if err = tx.QueryRow(ctx, insertUser, args...).Scan(&userID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	insertProfile, args, err := r.sb.Insert("profiles").
		Columns("id", "full_name").
		Values(userID, nullableString(fullName)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return 0, err
	}

	if _, err = tx.Exec(ctx, insertProfile, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create profile query")
		return 0, fmt.Errorf("error creating profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("Error committing create user transaction")
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return userID, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetUserByEmail retrieves an account by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "email", "password", "is_active", "last_login_at", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by email SQL")
		return nil, err
	}

	return r.scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByID retrieves an account by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "email", "password", "is_active", "last_login_at", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by ID SQL")
		return nil, err
	}

	return r.scanUser(r.db.QueryRow(ctx, sql, args...))
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.IsActive,
		&user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the account's most recent successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update last login SQL")
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update last login query")
		return err
	}

	return nil
}
