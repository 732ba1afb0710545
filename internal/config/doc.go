// Package config loads runtime configuration for the PulseKeeper daemon.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path or DSN of the local SQLite database
//	-o string   base URL of the Ollama server
//	-m string   model name used for annotations
//	-i int      reading tick interval (seconds)
//	-s int      sync interval (seconds)
//	-t string   upload target: "none", "http" or "s3"
//	-u string   upload URL for the http target
//	-r          wipe locally stored state (session token, seal salt) before starting
//
// Everything else (S3 coordinates, session secret, sealing passphrase,
// enrichment tuning) is configurable through the JSON file only. The -r
// reset switch is flag-only on purpose: persisted in the JSON file it
// would wipe state on every start.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Keys absent from the file keep
// their earlier values:
//
//	{
//	  "database_dsn": "pulsekeeper.db",
//	  "ollama_endpoint": "http://127.0.0.1:11434",
//	  "ollama_model": "llama3.2",
//	  "tick_interval": "1s",
//	  "sync_interval": "100s",
//	  "upload_target": "s3",
//	  "s3_bucket": "pulsekeeper"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings of the daemon
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
