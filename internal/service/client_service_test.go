package service

import (
	"context"
	"testing"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClientStore struct {
	details       *model.ClientDetails
	services      []model.CatalogService
	serviceCalls  int
	updates       []*model.ClientUpdate
	activityCalls int
}

func (f *fakeClientStore) GetByUserID(ctx context.Context, userID string) (*model.ClientDetails, error) {
	return f.details, nil
}

func (f *fakeClientStore) GetByID(ctx context.Context, id string) (*model.Client, error) {
	if f.details == nil {
		return nil, nil
	}
	return &f.details.Client, nil
}

func (f *fakeClientStore) UpdateProfile(ctx context.Context, id string, update *model.ClientUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeClientStore) AppendActivity(ctx context.Context, clientID, action, detail string) error {
	f.activityCalls++
	return nil
}

func (f *fakeClientStore) ListActivity(ctx context.Context, clientID string) ([]model.ActivityEntry, error) {
	return []model.ActivityEntry{}, nil
}

func (f *fakeClientStore) ListServices(ctx context.Context, companyID string) ([]model.CatalogService, error) {
	f.serviceCalls++
	return f.services, nil
}

func TestListServicesWithoutCompanyIsEmpty(t *testing.T) {
	store := &fakeClientStore{services: []model.CatalogService{{ID: "s1", Name: "Packing"}}}
	svc := NewClientService(store, zap.NewNop())

	services, err := svc.ListServices(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, services)
	assert.Zero(t, store.serviceCalls, "no query without a company")
}

func TestListServicesForCompany(t *testing.T) {
	store := &fakeClientStore{services: []model.CatalogService{{ID: "s1", Name: "Packing"}}}
	svc := NewClientService(store, zap.NewNop())

	services, err := svc.ListServices(context.Background(), "company-1")
	require.NoError(t, err)

	require.Len(t, services, 1)
	assert.Equal(t, "Packing", services[0].Name)
}

func TestUpdateProfileSkipsWriteWhenNothingChanged(t *testing.T) {
	store := &fakeClientStore{details: &model.ClientDetails{Client: model.Client{ID: "c1", Name: "Ada"}}}
	svc := NewClientService(store, zap.NewNop())

	details, err := svc.UpdateProfile(context.Background(), "u1", "c1", &model.ClientUpdate{})
	require.NoError(t, err)

	assert.Equal(t, "Ada", details.Name)
	assert.Empty(t, store.updates)
	assert.Zero(t, store.activityCalls)
}
