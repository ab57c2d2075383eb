package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5173", cfg.Server.Addr)
	assert.Equal(t, "http://127.0.0.1:8000/api/", cfg.Backend.BaseURL)
	assert.Equal(t, 15, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "data/dashboard.db", cfg.Database.Path)
	assert.True(t, cfg.Auth.AllowReregister)
	assert.Equal(t, "user-management", cfg.Admin.LandingRoute)
	assert.Empty(t, cfg.Mirror.Bucket)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DASH_SERVER_ADDR", "0.0.0.0:9000")
	t.Setenv("DASH_BACKEND_BASEURL", "http://backend:8000/api/")
	t.Setenv("DASH_AUTH_ALLOWREREGISTER", "false")
	t.Setenv("DASH_MIRROR_BUCKET", "campus-media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "http://backend:8000/api/", cfg.Backend.BaseURL)
	assert.False(t, cfg.Auth.AllowReregister)
	assert.Equal(t, "campus-media", cfg.Mirror.Bucket)
}
