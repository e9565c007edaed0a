package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserRepository handles database operations for authenticated identities
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, password_hash, role, company_id, is_active, last_login, created_at
	          FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by ID", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, role, company_id, is_active, last_login, created_at
	          FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, err
	}

	return &user, nil
}

// UpdateLastLogin sets the last login timestamp to now
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("Failed to update last login", zap.Error(err), zap.String("id", id))
		return err
	}

	return nil
}
