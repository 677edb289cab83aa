package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REGISTRA_SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("REGISTRA_PG_DSN", "postgres://localhost/registra")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, "super_admin", cfg.SuperuserRole)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("REGISTRA_SECRET_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REGISTRA_SECRET_KEY")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REGISTRA_SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("REGISTRA_HTTP_ADDR", ":9090")
	t.Setenv("REGISTRA_ACCESS_TTL_MINUTES", "15")
	t.Setenv("REGISTRA_REFRESH_TTL_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
}

func TestLoadRejectsMalformedInteger(t *testing.T) {
	t.Setenv("REGISTRA_SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("REGISTRA_ACCESS_TTL_MINUTES", "soon")

	_, err := Load()
	require.Error(t, err)
}
