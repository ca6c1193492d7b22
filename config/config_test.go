package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNForEnv(t *testing.T) {
	t.Setenv("QC_DB_HOST", "db.qc")
	t.Setenv("QC_DB_USER", "rental")
	t.Setenv("QC_DB_PASSWORD", "pw")
	t.Setenv("QC_DB_NAME", "locations")
	t.Setenv("QC_DB_PORT", "5432")

	dsn, err := dsnForEnv("qc")
	require.NoError(t, err)
	assert.Equal(t, "host=db.qc user=rental password=pw dbname=locations port=5432 sslmode=require TimeZone=UTC", dsn)

	_, err = dsnForEnv("staging")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_MINUTES", "3")
	t.Setenv("FETCH_RETRY_BACKOFF_MS", "oops")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, 3*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchBackoff)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
