package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv("NOTES_API_BASE_URL", "http://env:8000")
	t.Setenv("NOTES_SESSION_CHECK_TIMEOUT", "2s")
	t.Setenv("NOTES_ENABLE_ONE_TAP", "false")
	t.Setenv("NOTES_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("NOTES_S3_BUCKET", "mirror")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env:8000", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.SessionCheckTimeout)
	assert.False(t, cfg.EnableOneTap)
	assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, "mirror", cfg.S3Bucket)
	assert.Equal(t, "kgpian.iitkgp.ac.in", cfg.AllowedDomain, "unset variables keep defaults")
}

func Test_parseEnv_Malformed(t *testing.T) {
	t.Setenv("NOTES_ONE_TAP_INIT_RETRIES", "many")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
