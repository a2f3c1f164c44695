package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LIFEDECK_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Contains(t, cfg.SessionPath, "session.json")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LIFEDECK_CONFIG_DIR", t.TempDir())
	t.Setenv("LIFEDECK_API_URL", "http://localhost:8080/api")
	t.Setenv("LIFEDECK_TIMEOUT", "3s")
	t.Setenv("LIFEDECK_PAGE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 25, cfg.PageSize)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("LIFEDECK_CONFIG_DIR", t.TempDir())
	t.Setenv("LIFEDECK_TIMEOUT", "soon")
	t.Setenv("LIFEDECK_PAGE_SIZE", "-4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
}
