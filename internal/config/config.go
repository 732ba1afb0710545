package config

import "time"

// Upload targets accepted in Config.UploadTarget.
const (
	UploadTargetNone = "none"
	UploadTargetHTTP = "http"
	UploadTargetS3   = "s3"
)

// Config holds runtime settings for the PulseKeeper daemon.
//
// Fields:
//   - DatabaseDSN: path or DSN of the local SQLite database.
//   - OllamaEndpoint / OllamaModel: where annotations come from.
//   - TickInterval: how often a reading is produced.
//   - SyncInterval: how often the sync loop drains unsynced readings.
//   - EnrichEvery: tick threshold the counter must exceed to trigger an
//     annotation refresh.
//   - EnrichTimeout: upper bound for one annotation call.
//   - SessionSecret: HMAC secret for signing the local session token
//     (HS256). Do not use test defaults in prod.
//   - SessionTokenTTL: session token lifetime.
//   - UploadTarget: "none", "http" or "s3".
//   - UploadURL: destination for the http target.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - EncryptionPassphrase: when set, upload payloads are sealed with a key
//     derived from it.
//   - Reset: wipe locally stored state (session token, seal salt) on
//     startup. Flag-only, never read from the JSON file.
type Config struct {
	DatabaseDSN          string
	OllamaEndpoint       string
	OllamaModel          string
	TickInterval         time.Duration
	SyncInterval         time.Duration
	EnrichEvery          int
	EnrichTimeout        time.Duration
	SessionSecret        string
	SessionTokenTTL      time.Duration
	UploadTarget         string
	UploadURL            string
	S3RootUser           string
	S3RootPassword       string
	S3Bucket             string
	S3Region             string
	S3BaseEndpoint       string
	EncryptionPassphrase string
	Reset                bool
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "pulsekeeper.db"
	c.OllamaEndpoint = "http://127.0.0.1:11434"
	c.OllamaModel = "llama3.2"
	c.TickInterval = 1 * time.Second
	c.SyncInterval = 100 * time.Second
	c.EnrichEvery = 60
	c.EnrichTimeout = 30 * time.Second
	c.SessionSecret = "secretKey"
	c.SessionTokenTTL = 720 * time.Hour
	c.UploadTarget = UploadTargetNone
	c.UploadURL = ""
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "pulsekeeper"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.EncryptionPassphrase = ""
	c.Reset = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
