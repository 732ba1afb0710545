package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/flagx"
	"github.com/dmitrijs2005/pulsekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN          string         `json:"database_dsn"`
	OllamaEndpoint       string         `json:"ollama_endpoint"`
	OllamaModel          string         `json:"ollama_model"`
	TickInterval         timex.Duration `json:"tick_interval"`
	SyncInterval         timex.Duration `json:"sync_interval"`
	EnrichEvery          int            `json:"enrich_every"`
	EnrichTimeout        timex.Duration `json:"enrich_timeout"`
	SessionSecret        string         `json:"session_secret"`
	SessionTokenTTL      timex.Duration `json:"session_token_ttl"`
	UploadTarget         string         `json:"upload_target"`
	UploadURL            string         `json:"upload_url"`
	S3RootUser           string         `json:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	EncryptionPassphrase string         `json:"encryption_passphrase"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; keys absent from the
//     file keep their earlier values.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.OllamaEndpoint != "" {
		cfg.OllamaEndpoint = jc.OllamaEndpoint
	}
	if jc.OllamaModel != "" {
		cfg.OllamaModel = jc.OllamaModel
	}
	if jc.TickInterval.Duration != 0 {
		cfg.TickInterval = time.Duration(jc.TickInterval.Duration)
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
	if jc.EnrichEvery > 0 {
		cfg.EnrichEvery = jc.EnrichEvery
	}
	if jc.EnrichTimeout.Duration != 0 {
		cfg.EnrichTimeout = time.Duration(jc.EnrichTimeout.Duration)
	}
	if jc.SessionSecret != "" {
		cfg.SessionSecret = jc.SessionSecret
	}
	if jc.SessionTokenTTL.Duration != 0 {
		cfg.SessionTokenTTL = time.Duration(jc.SessionTokenTTL.Duration)
	}
	if jc.UploadTarget != "" {
		cfg.UploadTarget = jc.UploadTarget
	}
	if jc.UploadURL != "" {
		cfg.UploadURL = jc.UploadURL
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.EncryptionPassphrase != "" {
		cfg.EncryptionPassphrase = jc.EncryptionPassphrase
	}
}
