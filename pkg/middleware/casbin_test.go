package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRBACPolicies(t *testing.T) {
	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	cases := []struct {
		role, path, method string
		allowed            bool
	}{
		{"admin", "/api/admin/dashboard", "GET", true},
		{"admin", "/api/admin/tasks", "POST", true},
		{"admin", "/api/admin/notifications/all", "DELETE", true},
		{"admin", "/api/employee/dashboard", "GET", false},
		{"employee", "/api/employee/dashboard", "GET", true},
		{"employee", "/api/employee/tasks/abc/update", "POST", true},
		{"employee", "/api/admin/dashboard", "GET", false},
		{"employee", "/api/admin/user/approve/abc", "POST", false},
		{"pending", "/api/admin/dashboard", "GET", false},
		{"pending", "/api/employee/dashboard", "GET", false},
	}
	for _, tc := range cases {
		allowed, err := enforcer.Enforce(tc.role, tc.path, tc.method)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s %s", tc.role, tc.method, tc.path)
	}
}
