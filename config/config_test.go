package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "verdura", cfg.DBName)
	assert.True(t, cfg.AnalyticsIncludeCancelled)
	assert.Equal(t, cfg.AdminUsername, cfg.AdminEmail, "admin email falls back to the username")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "verdura_test")
	t.Setenv("ANALYTICS_INCLUDE_CANCELLED", "false")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "verdura_test", cfg.DBName)
	assert.False(t, cfg.AnalyticsIncludeCancelled)
	assert.Equal(t, "ops@example.com", cfg.AdminEmail)
}

func TestAddrNormalization(t *testing.T) {
	assert.Equal(t, ":8080", (&Config{Port: "8080"}).Addr())
	assert.Equal(t, ":8080", (&Config{Port: ":8080"}).Addr())
}
