package repository

import (
	"testing"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAssignmentDefaultsToClient(t *testing.T) {
	assigned, err := resolveAssignment(nil)
	require.NoError(t, err)

	assert.Equal(t, model.RoleClient, assigned.Role)
	assert.Nil(t, assigned.CompanyID)
	assert.Equal(t, "clients", assigned.Table)
}

func TestResolveAssignmentAdoptsInvite(t *testing.T) {
	company := "company-1"

	tests := []struct {
		name      string
		role      string
		wantTable string
	}{
		{"client invite", model.RoleClient, "clients"},
		{"admin invite", model.RoleAdmin, "admins"},
		{"crew invite", model.RoleCrew, "crew"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assigned, err := resolveAssignment(&model.Invite{
				ID:        "invite-1",
				Email:     "new@example.com",
				Role:      tt.role,
				CompanyID: &company,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.role, assigned.Role)
			require.NotNil(t, assigned.CompanyID)
			assert.Equal(t, company, *assigned.CompanyID)
			assert.Equal(t, tt.wantTable, assigned.Table)
		})
	}
}

func TestResolveAssignmentPrivilegedRolesRequireCompany(t *testing.T) {
	for _, role := range []string{model.RoleAdmin, model.RoleCrew} {
		_, err := resolveAssignment(&model.Invite{
			ID:    "invite-1",
			Email: "new@example.com",
			Role:  role,
		})
		assert.ErrorIs(t, err, ErrCompanyRequired)
	}
}

func TestResolveAssignmentRejectsUnknownRole(t *testing.T) {
	company := "company-1"

	_, err := resolveAssignment(&model.Invite{
		ID:        "invite-1",
		Email:     "new@example.com",
		Role:      "superuser",
		CompanyID: &company,
	})
	assert.Error(t, err)
}
