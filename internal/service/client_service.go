package service

import (
	"context"

	"github.com/yourorg/moving-portal/internal/model"

	"go.uber.org/zap"
)

// clientStore is the slice of the client repository the service needs.
type clientStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.ClientDetails, error)
	GetByID(ctx context.Context, id string) (*model.Client, error)
	UpdateProfile(ctx context.Context, id string, update *model.ClientUpdate) error
	AppendActivity(ctx context.Context, clientID, action, detail string) error
	ListActivity(ctx context.Context, clientID string) ([]model.ActivityEntry, error)
	ListServices(ctx context.Context, companyID string) ([]model.CatalogService, error)
}

// ClientService handles client profile, activity log and service catalog reads
type ClientService struct {
	clients clientStore
	logger  *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(clients clientStore, logger *zap.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		logger:  logger,
	}
}

// GetProfile returns the client profile with its company for the given user
func (s *ClientService) GetProfile(ctx context.Context, userID string) (*model.ClientDetails, error) {
	details, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrNotFound
	}
	return details, nil
}

// UpdateProfile applies a partial profile update and returns the fresh profile
func (s *ClientService) UpdateProfile(ctx context.Context, userID, clientID string, update *model.ClientUpdate) (*model.ClientDetails, error) {
	if update.Name == nil && update.Phone == nil {
		return s.GetProfile(ctx, userID)
	}

	if err := s.clients.UpdateProfile(ctx, clientID, update); err != nil {
		return nil, err
	}

	if err := s.clients.AppendActivity(ctx, clientID, "profile_updated", ""); err != nil {
		s.logger.Warn("failed to append activity", zap.Error(err), zap.String("client_id", clientID))
	}

	return s.GetProfile(ctx, userID)
}

// ListActivity returns the client's activity log, newest first
func (s *ClientService) ListActivity(ctx context.Context, clientID string) ([]model.ActivityEntry, error) {
	return s.clients.ListActivity(ctx, clientID)
}

// ListServices returns the service catalog for the client's company.
// A client with no company yet sees an empty catalog.
func (s *ClientService) ListServices(ctx context.Context, companyID string) ([]model.CatalogService, error) {
	if companyID == "" {
		return []model.CatalogService{}, nil
	}
	return s.clients.ListServices(ctx, companyID)
}
