package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MT_DB_PATH", t.TempDir()+"/movetrack.db")
	t.Setenv("MT_UPLOAD_DIR", t.TempDir()+"/uploads")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("MT_ENV", "production")
	t.Setenv("MT_JWT_SECRET", "")
	t.Setenv("MT_DB_PATH", t.TempDir()+"/movetrack.db")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MT_HTTP_PORT", "9090")
	t.Setenv("MT_JWT_SECRET", "supersecret")
	t.Setenv("MT_DB_PATH", t.TempDir()+"/movetrack.db")
	t.Setenv("MT_UPLOAD_DIR", t.TempDir()+"/uploads")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
}
