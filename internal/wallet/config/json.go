package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chaincode/internal/flagx"
	"github.com/dmitrijs2005/chaincode/internal/timex"
)

// JsonConfig is the on-disk form of Config. Empty fields keep the value
// from earlier sources.
type JsonConfig struct {
	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	OutputDir       string         `json:"output_dir"`
	LogLevel        string         `json:"log_level"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	PresignValidity timex.Duration `json:"presign_validity"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the file named by -c / -config, if any.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.DatabaseDriver, jc.DatabaseDriver)
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.OutputDir, jc.OutputDir)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.PresignValidity.Duration != 0 {
		cfg.PresignValidity = jc.PresignValidity.Duration
	}
}
