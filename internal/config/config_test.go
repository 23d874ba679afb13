package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 100*time.Minute, cfg.Session.IdleTimeout())
	assert.False(t, cfg.Seed.Strict)
	assert.Equal(t, []string{RoleAdmin, RoleEmployee, RoleIndividualCustomer, RoleCompanyCustomer}, cfg.Seed.Roles)
	assert.Equal(t, "admin@craftelio.com", cfg.Seed.Admin.Email)
	assert.Equal(t, "Admin123*", cfg.Seed.Admin.Password)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.True(t, cfg.Identity.RequireUniqueEmail)
	assert.Equal(t, 6, cfg.Identity.PasswordMinLength)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SEED_STRICT", "true")
	t.Setenv("SEED_ADMIN_EMAIL", "ops@example.com")
	t.Setenv("IDENTITY_PASSWORD_MIN_LENGTH", "10")
	t.Setenv("SESSION_IDLE_TIMEOUT_MINUTES", "15")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Seed.Strict)
	assert.Equal(t, "ops@example.com", cfg.Seed.Admin.Email)
	assert.Equal(t, "ops@example.com", cfg.Seed.Admin.UserName)
	assert.Equal(t, 10, cfg.Identity.PasswordMinLength)
	assert.Equal(t, 15*time.Minute, cfg.Session.IdleTimeout())
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SEED_STRICT", "maybe")
	t.Setenv("SMTP_PORT", "x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Seed.Strict)
	assert.Equal(t, 587, cfg.Email.Port)
}
