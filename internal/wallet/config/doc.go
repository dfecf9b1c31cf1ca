// Package config loads runtime configuration for the chaincode wallet CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with CHAINCODE_ (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-driver string   database driver: sqlite or postgres
//	-d string        database DSN (a file path for sqlite)
//	-o string        directory for exported bundles and key files
//	-l string        log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "wallet.db",
//	  "output_dir": "exports",
//	  "log_level": "info",
//	  "s3_bucket": "chaincode-drop",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minioadmin",
//	  "s3_secret_key": "minioadmin",
//	  "presign_validity": "15m"
//	}
//
// An empty S3 bucket disables publish and fetch.
package config
