package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.exotel.com/v1", cfg.Provider.BaseURL)
	assert.Equal(t, 10, cfg.Provider.PageSize)
	assert.Equal(t, "nova-2", cfg.Transcription.Model)
	assert.Equal(t, "en-US", cfg.Transcription.Language)
	assert.Equal(t, 5*time.Minute, cfg.Cycle.Interval)
	assert.Equal(t, 4, cfg.Cycle.Workers)
	assert.Equal(t, uint64(0), cfg.Cycle.MaxRetries)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "http://provider.test/v1/")
	t.Setenv("PROVIDER_PAGE_SIZE", "25")
	t.Setenv("CYCLE_INTERVAL", "90s")
	t.Setenv("CYCLE_WORKERS", "2")
	t.Setenv("HTTP_MAX_RETRIES", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://provider.test/v1", cfg.Provider.BaseURL)
	assert.Equal(t, 25, cfg.Provider.PageSize)
	assert.Equal(t, 90*time.Second, cfg.Cycle.Interval)
	assert.Equal(t, 2, cfg.Cycle.Workers)
	assert.Equal(t, uint64(3), cfg.Cycle.MaxRetries)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"PROVIDER_PAGE_SIZE": "ten",
		"CYCLE_INTERVAL":     "often",
		"HTTP_MAX_RETRIES":   "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidateListsMissingCredentials(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	err = cfg.Validate()
	require.ErrorIs(t, err, ErrMissingEnvironmentVariable)
	assert.Contains(t, err.Error(), "PROVIDER_SID")
	assert.Contains(t, err.Error(), "SLACK_WEBHOOK")

	cfg.Provider.SID = "sid"
	cfg.Provider.APIKey = "key"
	cfg.Provider.APIToken = "token"
	cfg.Transcription.APIKey = "dg"
	cfg.Slack.Webhook = "https://hooks.example.test/x"
	assert.NoError(t, cfg.Validate())
}
