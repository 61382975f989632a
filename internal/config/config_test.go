package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv registers the restore; Unsetenv then clears the variable for
	// real, since envconfig treats set-but-empty as an explicit value.
	for _, key := range []string{"PORT", "BASE_URL", "API_KEY", "DATA_DIR", "WEBHOOK_CONFIG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "http://localhost:8080", cfg.App.BaseURL)
	assert.Empty(t, cfg.App.APIKey)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, "./data/.webhook.json", cfg.Storage.WebhookConfigFile)
}

func TestLoadOverridesAndURLTrim(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://proposals.acme.test/")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("DATA_DIR", "/var/lib/proposals")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "https://proposals.acme.test", cfg.App.BaseURL)
	assert.Equal(t, "s3cret", cfg.App.APIKey)
	assert.Equal(t, "/var/lib/proposals", cfg.Storage.DataDir)

	assert.Equal(t, "https://proposals.acme.test/acme-corp-2024", cfg.ProposalURL("acme-corp-2024"))
}
