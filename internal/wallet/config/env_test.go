package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("CHAINCODE_DB_DRIVER", "postgres")
	t.Setenv("CHAINCODE_DB_DSN", "postgres://u:p@localhost:5432/wallet")
	t.Setenv("CHAINCODE_S3_BUCKET", "drop")
	t.Setenv("CHAINCODE_S3_PRESIGN_VALIDITY", "1h")

	cfg := defaults()
	parseEnv(cfg)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/wallet", cfg.DatabaseDSN)
	assert.Equal(t, "drop", cfg.S3Bucket)
	assert.Equal(t, time.Hour, cfg.PresignValidity)
	assert.Equal(t, "exports", cfg.OutputDir, "unset variables keep defaults")
}

func TestParseEnv_Malformed(t *testing.T) {
	t.Setenv("CHAINCODE_S3_PRESIGN_VALIDITY", "soon")

	cfg := defaults()
	require.Panics(t, func() { parseEnv(cfg) })
}
