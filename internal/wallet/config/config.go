package config

import "time"

// Config holds runtime settings for the wallet CLI.
type Config struct {
	DatabaseDriver string `env:"DB_DRIVER"`
	DatabaseDSN    string `env:"DB_DSN"`
	OutputDir      string `env:"OUTPUT_DIR"`
	LogLevel       string `env:"LOG_LEVEL"`

	S3Bucket        string        `env:"S3_BUCKET"`
	S3Region        string        `env:"S3_REGION"`
	S3BaseEndpoint  string        `env:"S3_BASE_ENDPOINT"`
	S3AccessKey     string        `env:"S3_ACCESS_KEY"`
	S3SecretKey     string        `env:"S3_SECRET_KEY"`
	PresignValidity time.Duration `env:"S3_PRESIGN_VALIDITY"`
}

// LoadDefaults populates c with defaults for a local SQLite wallet.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "wallet.db"
	c.OutputDir = "exports"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.PresignValidity = 15 * time.Minute
}

// LoadConfig applies defaults, then environment, JSON and flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
