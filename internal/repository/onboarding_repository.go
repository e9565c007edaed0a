package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrCompanyRequired is returned when an invite assigns a privileged role
// without a company affiliation.
var ErrCompanyRequired = errors.New("admin and crew roles require a company")

// OnboardingResult is the resolved assignment for a new identity.
type OnboardingResult struct {
	UserID    string
	Role      string
	CompanyID *string
	// ProfileID is the id of the role-specific profile row
	// (clients/admins/crew).
	ProfileID string
}

// assignment is the resolved role, company and profile table for a signup.
type assignment struct {
	Role      string
	CompanyID *string
	Table     string
}

// resolveAssignment decides what a signup becomes. A nil invite defaults to
// an unaffiliated client; privileged invites must carry a company.
func resolveAssignment(invite *model.Invite) (assignment, error) {
	a := assignment{Role: model.RoleClient}
	if invite != nil {
		a.Role = invite.Role
		a.CompanyID = invite.CompanyID
	}

	if (a.Role == model.RoleAdmin || a.Role == model.RoleCrew) && a.CompanyID == nil {
		return assignment{}, ErrCompanyRequired
	}

	switch a.Role {
	case model.RoleClient:
		a.Table = "clients"
	case model.RoleAdmin:
		a.Table = "admins"
	case model.RoleCrew:
		a.Table = "crew"
	default:
		return assignment{}, fmt.Errorf("unknown role %q on invite", a.Role)
	}

	return a, nil
}

// OnboardingRepository performs the signup transaction: identity row, invite
// matching and the role-specific profile row, all or nothing.
type OnboardingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOnboardingRepository creates a new onboarding repository
func NewOnboardingRepository(db *sqlx.DB, logger *zap.Logger) *OnboardingRepository {
	return &OnboardingRepository{
		db:     db,
		logger: logger,
	}
}

// Onboard creates the user row, adopts a pending invite for the email if one
// exists (deleting it, single-use), and writes the role-specific profile row.
// Without an invite the identity defaults to the client role with no company.
func (r *OnboardingRepository) Onboard(ctx context.Context, reg *model.UserRegister, passwordHash string) (*OnboardingResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin onboarding transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	var invite *model.Invite
	var row model.Invite
	err = tx.GetContext(ctx, &row,
		`SELECT id, email, role, company_id, created_at FROM invites WHERE email = $1 FOR UPDATE`,
		reg.Email)
	switch {
	case err == nil:
		invite = &row
		if _, err := tx.ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, invite.ID); err != nil {
			r.logger.Error("Failed to consume invite", zap.Error(err), zap.String("invite_id", invite.ID))
			return nil, err
		}
	case errors.Is(err, sql.ErrNoRows):
		// No invite: unprivileged client with no company affiliation.
		r.logger.Warn("no invite found for signup, defaulting to client role",
			zap.String("email", reg.Email))
	default:
		r.logger.Error("Failed to look up invite", zap.Error(err))
		return nil, err
	}

	assigned, err := resolveAssignment(invite)
	if err != nil {
		return nil, err
	}

	userID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, company_id, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, NOW())`,
		userID, reg.Email, passwordHash, assigned.Role, assigned.CompanyID)
	if err != nil {
		r.logger.Error("Failed to insert user", zap.Error(err))
		return nil, err
	}

	profileID := uuid.NewString()
	var phone *string
	if reg.Phone != "" {
		phone = &reg.Phone
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO `+assigned.Table+` (id, user_id, company_id, name, email, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		profileID, userID, assigned.CompanyID, reg.Name, reg.Email, phone)
	if err != nil {
		r.logger.Error("Failed to insert profile row", zap.Error(err), zap.String("table", assigned.Table))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit onboarding transaction", zap.Error(err))
		return nil, err
	}

	return &OnboardingResult{
		UserID:    userID,
		Role:      assigned.Role,
		CompanyID: assigned.CompanyID,
		ProfileID: profileID,
	}, nil
}
