package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/padel?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MIN_REST_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.MinRest)
	assert.False(t, cfg.SnapshotsEnabled())
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET_KEY", "secret")

		_, err := Load()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/padel")
		t.Setenv("JWT_SECRET_KEY", "")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET_KEY")
	})

	t.Run("bad port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "not-a-port")

		_, err := Load()
		assert.ErrorContains(t, err, "SERVER_PORT")
	})

	t.Run("port out of range", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "70000")

		_, err := Load()
		assert.ErrorContains(t, err, "between 1 and 65535")
	})

	t.Run("negative rest", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MIN_REST_MINUTES", "-5")

		_, err := Load()
		assert.ErrorContains(t, err, "MIN_REST_MINUTES")
	})
}

func TestSnapshotsEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "draws")
	t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SnapshotsEnabled())
}
