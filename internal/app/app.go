// Package app assembles and runs the application: it opens the local store,
// restores the owner session, starts the reading pipeline with its background
// sync task, and handles graceful shutdown on OS signals.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/config"
	"github.com/dmitrijs2005/pulsekeeper/internal/cryptox"
	"github.com/dmitrijs2005/pulsekeeper/internal/events"
	"github.com/dmitrijs2005/pulsekeeper/internal/logging"
	"github.com/dmitrijs2005/pulsekeeper/internal/ollama"
	"github.com/dmitrijs2005/pulsekeeper/internal/pipeline"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/pulsekeeper/internal/sensor"
	"github.com/dmitrijs2005/pulsekeeper/internal/session"
	"github.com/dmitrijs2005/pulsekeeper/internal/storage"
	"github.com/dmitrijs2005/pulsekeeper/internal/syncer"
	"github.com/dmitrijs2005/pulsekeeper/internal/timex"
	"github.com/dmitrijs2005/pulsekeeper/internal/uploader"
)

// Metadata key under which the sealing salt is kept.
const sealSaltKey = "seal_salt"

// How long the startup model check may take before it is abandoned.
const modelCheckTimeout = 3 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *storage.Store
	session     session.Provider
	client      ollama.Client
	coordinator *pipeline.Coordinator
}

// NewApp opens the store and wires every component of the pipeline. With
// cfg.Reset set, the locally stored state is wiped before anything reads
// it. The returned App owns the store handle; Run closes it on exit.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {

	store, err := storage.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	sess := session.NewLocal(store.DB, []byte(cfg.SessionSecret), cfg.SessionTokenTTL)

	if cfg.Reset {
		dropped, err := sess.Reset(ctx)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("state reset error: %w", err)
		}
		logger.Info(ctx, "local state cleared", "dropped", dropped)
	}

	sealKey, err := loadSealKey(ctx, store.Metadata, cfg.EncryptionPassphrase)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("seal key init error: %w", err)
	}

	up, err := selectUploader(cfg, sealKey)
	if err != nil {
		store.Close()
		return nil, err
	}

	clock := timex.NewSystemClock()
	sink := events.NewLogSink(logger)
	client := ollama.NewHTTPClient(cfg.OllamaEndpoint)

	coordinator := pipeline.NewCoordinator(
		sensor.NewSimulator(cfg.TickInterval, clock),
		client,
		store.Readings,
		syncer.NewTask(store.Readings, up, sink, logger, clock, cfg.SyncInterval),
		sink,
		logger,
		pipeline.Options{
			Model:         cfg.OllamaModel,
			EnrichEvery:   cfg.EnrichEvery,
			EnrichTimeout: cfg.EnrichTimeout,
		},
	)

	return &App{
		config:      cfg,
		logger:      logger,
		store:       store,
		session:     sess,
		client:      client,
		coordinator: coordinator,
	}, nil
}

// loadSealKey derives the payload sealing key from the passphrase. The salt
// is generated on first use and kept in the metadata store, so the key stays
// stable across restarts. An empty passphrase disables sealing.
func loadSealKey(ctx context.Context, meta metadata.Repository, passphrase string) ([]byte, error) {

	if passphrase == "" {
		return nil, nil
	}

	salt, err := meta.Get(ctx, sealSaltKey)
	if err != nil {
		return nil, err
	}

	if salt == nil {
		salt = common.GenerateRandByteArray(16)
		if err := meta.Set(ctx, sealSaltKey, salt); err != nil {
			return nil, err
		}
	}

	pass := []byte(passphrase)
	defer common.WipeByteArray(pass)

	return cryptox.DeriveKey(pass, salt), nil
}

// selectUploader picks the sync upload target from the configuration.
func selectUploader(cfg *config.Config, sealKey []byte) (uploader.Uploader, error) {
	switch cfg.UploadTarget {
	case "", config.UploadTargetNone:
		return uploader.NewNoop(), nil
	case config.UploadTargetHTTP:
		if cfg.UploadURL == "" {
			return nil, errors.New("upload_url is required for the http upload target")
		}
		return uploader.NewHTTP(cfg.UploadURL, sealKey), nil
	case config.UploadTargetS3:
		return uploader.NewS3(uploader.S3Options{
			Region:       cfg.S3Region,
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}, sealKey), nil
	default:
		return nil, fmt.Errorf("unknown upload target: %q", cfg.UploadTarget)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// checkModel asks the Ollama server for its model list and warns when the
// configured model is not on it. The check is advisory only.
func (app *App) checkModel(ctx context.Context) {

	ctx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	models, err := app.client.ListModels(ctx)
	if err != nil {
		app.logger.Warn(ctx, "ollama server check failed", "error", err.Error())
		return
	}

	if !slices.Contains(models, app.config.OllamaModel) {
		app.logger.Warn(ctx, "model not found on ollama server", "model", app.config.OllamaModel)
	}
}

// Run starts the pipeline for the current owner and blocks until the context
// is cancelled or an OS signal arrives. It always stops the pipeline and
// closes the store before returning.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.store.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	ownerID, err := app.session.CurrentOwner(ctx)
	if err != nil {
		return fmt.Errorf("session init error: %w", err)
	}

	app.checkModel(ctx)

	app.coordinator.Start(ctx, ownerID)
	app.logger.Info(ctx, "app started", "owner", ownerID)

	<-ctx.Done()

	app.logger.Info(ctx, "Shutting down...")
	app.coordinator.Stop()

	return nil
}
