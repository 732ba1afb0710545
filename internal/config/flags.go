package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path or DSN of the local database
//	-o string   base URL of the Ollama server
//	-m string   model name used for annotations
//	-i int      reading tick interval in seconds (default from Config)
//	-s int      sync interval in seconds (default from Config)
//	-t string   upload target: "none", "http" or "s3"
//	-u string   upload URL for the http target
//	-r          wipe locally stored state before starting
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-o", "-m", "-i", "-s", "-t", "-u", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path or DSN of the local database")
	fs.StringVar(&cfg.OllamaEndpoint, "o", cfg.OllamaEndpoint, "base URL of the Ollama server")
	fs.StringVar(&cfg.OllamaModel, "m", cfg.OllamaModel, "model used for annotations")
	tickInterval := fs.Int("i", int(cfg.TickInterval.Seconds()), "reading tick interval (in seconds)")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	fs.StringVar(&cfg.UploadTarget, "t", cfg.UploadTarget, "upload target: none, http or s3")
	fs.StringVar(&cfg.UploadURL, "u", cfg.UploadURL, "upload URL for the http target")
	fs.BoolVar(&cfg.Reset, "r", cfg.Reset, "wipe locally stored state (session token, seal salt) before starting")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TickInterval = time.Duration(*tickInterval) * time.Second
	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
}
