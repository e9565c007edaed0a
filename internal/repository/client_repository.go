package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ClientRepository handles database operations for client profiles
type ClientRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sqlx.DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID retrieves the client profile for an identity, joined with its
// owning company.
func (r *ClientRepository) GetByUserID(ctx context.Context, userID string) (*model.ClientDetails, error) {
	query := `SELECT c.id, c.user_id, c.company_id, c.name, c.email, c.phone, c.created_at
	          FROM clients c WHERE c.user_id = $1`

	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get client by user ID", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	details := &model.ClientDetails{Client: client}
	if client.CompanyID != nil {
		company, err := r.getCompany(ctx, *client.CompanyID)
		if err != nil {
			return nil, err
		}
		details.Company = company
	}

	return details, nil
}

// GetByID retrieves a client profile by id
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	query := `SELECT id, user_id, company_id, name, email, phone, created_at
	          FROM clients WHERE id = $1`

	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get client by ID", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &client, nil
}

// UpdateProfile updates the client-editable profile fields
func (r *ClientRepository) UpdateProfile(ctx context.Context, id string, update *model.ClientUpdate) error {
	query := `UPDATE clients
	          SET name = COALESCE($2, name),
	              phone = COALESCE($3, phone)
	          WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, update.Name, update.Phone); err != nil {
		r.logger.Error("Failed to update client profile", zap.Error(err), zap.String("id", id))
		return err
	}

	return nil
}

// AppendActivity writes one row to the client activity log
func (r *ClientRepository) AppendActivity(ctx context.Context, clientID, action, detail string) error {
	var d *string
	if detail != "" {
		d = &detail
	}

	query := `INSERT INTO client_activity_log (id, client_id, action, detail, created_at)
	          VALUES ($1, $2, $3, $4, NOW())`

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), clientID, action, d); err != nil {
		r.logger.Error("Failed to append activity", zap.Error(err), zap.String("client_id", clientID))
		return err
	}

	return nil
}

// ListActivity returns the client's activity log, newest first
func (r *ClientRepository) ListActivity(ctx context.Context, clientID string) ([]model.ActivityEntry, error) {
	query := `SELECT id, client_id, action, detail, created_at
	          FROM client_activity_log
	          WHERE client_id = $1
	          ORDER BY created_at DESC`

	var entries []model.ActivityEntry
	if err := r.db.SelectContext(ctx, &entries, query, clientID); err != nil {
		r.logger.Error("Failed to list activity", zap.Error(err), zap.String("client_id", clientID))
		return nil, err
	}

	return entries, nil
}

// ListServices returns the company's service catalog ordered by name
func (r *ClientRepository) ListServices(ctx context.Context, companyID string) ([]model.CatalogService, error) {
	query := `SELECT id, company_id, name, description, price, created_at
	          FROM services
	          WHERE company_id = $1
	          ORDER BY name ASC`

	var services []model.CatalogService
	if err := r.db.SelectContext(ctx, &services, query, companyID); err != nil {
		r.logger.Error("Failed to list services", zap.Error(err), zap.String("company_id", companyID))
		return nil, err
	}

	return services, nil
}

func (r *ClientRepository) getCompany(ctx context.Context, id string) (*model.Company, error) {
	query := `SELECT id, name, phone, email, created_at FROM companies WHERE id = $1`

	var company model.Company
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get company", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &company, nil
}
