package permissions_test

import (
	"testing"

	"hallseat/permissions"
	"hallseat/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_LoadsEmbeddedTable(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.NotEmpty(t, data.Endpoints)
	assert.False(t, data.Skip)
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name    string
		path    string
		method  string
		role    string
		found   bool
		skip    bool
		allowed bool
	}{
		{"login is public", "/v1/auth/login", "POST", "", true, true, true},
		{"trailing slash from chi pattern", "/v1/rooms/", "GET", constant.RoleMaintenanceStaff, true, false, true},
		{"student cannot list rooms", "/v1/rooms/", "GET", constant.RoleStudent, true, false, false},
		{"finance reads students", "/v1/students/{id}", "GET", constant.RoleFinanceOfficer, true, false, true},
		{"finance cannot edit students", "/v1/students/{id}", "PATCH", constant.RoleFinanceOfficer, true, false, false},
		{"report viewer reads reports", "/v1/reports", "GET", constant.RoleReportViewer, true, false, true},
		{"report viewer cannot pay", "/v1/invoices/{id}/pay", "POST", constant.RoleReportViewer, true, false, false},
		{"student owns applications", "/v1/applications/mine", "POST", constant.RoleStudent, true, false, true},
		{"session open to every role", "/v1/auth/session", "GET", constant.RoleReportViewer, true, false, true},
		{"method is case-insensitive", "/v1/invoices/summary", "get", constant.RoleFinanceOfficer, true, false, true},
		{"unknown route", "/v1/unknown", "GET", constant.RoleSuperAdmin, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission, found := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.found, found)
			if !found {
				return
			}

			assert.Equal(t, tt.skip, permission.Skip)
			if !tt.skip {
				assert.Equal(t, tt.allowed, permission.Allows(tt.role))
			}
		})
	}
}

func TestEveryPermissionUsesKnownRoles(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	for _, endpoint := range data.Endpoints {
		for _, role := range endpoint.Permissions {
			assert.Contains(t, constant.Roles, role, "%s %s", endpoint.Method, endpoint.Path)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))
	assert.Error(t, err)
}
