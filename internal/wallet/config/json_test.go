package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"database_driver":  "postgres",
		"database_dsn":     "postgres://localhost/wallet",
		"s3_bucket":        "drop",
		"s3_base_endpoint": "http://127.0.0.1:9000",
		"presign_validity": "30m",
	})

	t.Run("loads from -config", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, "postgres", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://localhost/wallet", cfg.DatabaseDSN)
		assert.Equal(t, "drop", cfg.S3Bucket)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.S3BaseEndpoint)
		assert.Equal(t, 30*time.Minute, cfg.PresignValidity)
		assert.Equal(t, "exports", cfg.OutputDir, "absent keys keep earlier values")
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := defaults()
		parseJson(cfg)
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		require.Panics(t, func() { parseJson(defaults()) })
	})

	t.Run("bad json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		require.Panics(t, func() { parseJson(defaults()) })
	})
}
