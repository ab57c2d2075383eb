package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-dashboard/internal/domain"
)

func TestMatch(t *testing.T) {
	table := Default()

	tests := []struct {
		path string
		name string
	}{
		{"/login", NameLogin},
		{"/", NameDashboard},
		{"", NameDashboard},
		{"/cart", "cart"},
		{"/cart/", "cart"},
		{"/cart?from=menu", "cart"},
		{"/store/42", "store-detail"},
		{"/store/abc", "store-detail"},
		{"/store", "store"},
		{"/manage/users", "user-management"},
		{"/no-such-page", NameDashboard},
		{"/store/42/extra", NameDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.name, table.Match(tt.path).Name)
		})
	}
}

func TestAllows(t *testing.T) {
	unrestricted := Route{Name: "open"}
	assert.True(t, unrestricted.Allows(domain.RoleConsumer))
	assert.True(t, unrestricted.Allows(""))

	adminOnly := Route{Meta: Meta{Roles: []domain.Role{domain.RoleAdmin}}}
	assert.True(t, adminOnly.Allows(domain.RoleAdmin))
	assert.False(t, adminOnly.Allows(domain.RoleConsumer))
	assert.False(t, adminOnly.Allows(""))
}

func TestByName(t *testing.T) {
	table := Default()

	r, ok := table.ByName("user-management")
	require.True(t, ok)
	assert.Equal(t, "/manage/users", r.Path)

	_, ok = table.ByName("nope")
	assert.False(t, ok)
}

func TestMenuFiltersByRole(t *testing.T) {
	table := Default()

	for _, r := range table.Menu(domain.RoleConsumer) {
		assert.False(t, r.Meta.Public, "menu must not contain public routes")
		assert.NotEmpty(t, r.Meta.Label)
		assert.True(t, r.Allows(domain.RoleConsumer))
	}

	names := func(rs []Route) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Contains(t, names(table.Menu(domain.RoleConsumer)), "cart")
	assert.NotContains(t, names(table.Menu(domain.RoleMerchant)), "cart")
	assert.Contains(t, names(table.Menu(domain.RoleAdmin)), "terminal")
	assert.NotContains(t, names(table.Menu(domain.RoleConsumer)), "terminal")

	// store-detail has no label and must never show up in a menu
	assert.NotContains(t, names(table.Menu(domain.RoleConsumer)), "store-detail")
}
