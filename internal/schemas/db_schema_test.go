package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected Role
	}{
		{"Admin", "admin", RoleAdmin},
		{"User", "user", RoleUser},
		{"Empty", "", RoleUser},
		{"Unknown", "superadmin", RoleUser},
		{"WrongCase", "Admin", RoleUser},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseRole(tc.raw))
		})
	}
}
