package pipeline

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/events"
	"github.com/dmitrijs2005/pulsekeeper/internal/logging"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
	"github.com/dmitrijs2005/pulsekeeper/internal/ollama"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/readings"
)

// State is the lifecycle state of the Coordinator.
type State int

const (
	StateIdle State = iota
	StateRunning
)

const (
	// defaultEnrichEvery is the tick threshold; the enrichment call fires
	// when the counter exceeds it, i.e. on reading 61.
	defaultEnrichEvery = 60

	defaultEnrichTimeout = 30 * time.Second

	// fallbackAnnotation replaces the annotation when enrichment fails.
	fallbackAnnotation = "annotation unavailable"
)

// Generator produces the readings the Coordinator consumes. sensor.Simulator
// is the shipped implementation.
type Generator interface {
	// Start begins emission scoped to ownerID; no-op while running.
	Start(ctx context.Context, ownerID string)

	// Stop halts emission and closes the Readings channel.
	Stop()

	// Readings returns the channel of the current run; nil before the
	// first Start.
	Readings() <-chan models.Reading
}

// SyncTask is the periodic delivery loop whose lifecycle the Coordinator
// owns. syncer.Task is the shipped implementation.
type SyncTask interface {
	Start(ctx context.Context)
	Stop()
}

// Options tunes the Coordinator. Zero values fall back to the defaults.
type Options struct {
	// Model is the name passed to the enrichment client.
	Model string

	// EnrichEvery is the tick threshold the counter must exceed to trigger
	// an enrichment call.
	EnrichEvery int

	// EnrichTimeout bounds one enrichment call.
	EnrichTimeout time.Duration
}

// Coordinator drives the reading pipeline: consume, persist, enrich, and
// own the sync task. See the package documentation for the lifecycle.
type Coordinator struct {
	generator Generator
	client    ollama.Client
	readings  readings.Repository
	syncTask  SyncTask
	sink      events.Sink
	logger    logging.Logger

	model         string
	enrichEvery   int
	enrichTimeout time.Duration

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	wg     sync.WaitGroup

	annotationMu sync.RWMutex
	annotation   string
}

func NewCoordinator(gen Generator, client ollama.Client, repo readings.Repository,
	syncTask SyncTask, sink events.Sink, logger logging.Logger, opts Options) *Coordinator {

	if opts.EnrichEvery <= 0 {
		opts.EnrichEvery = defaultEnrichEvery
	}
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = defaultEnrichTimeout
	}

	return &Coordinator{
		generator:     gen,
		client:        client,
		readings:      repo,
		syncTask:      syncTask,
		sink:          sink,
		logger:        logger,
		model:         opts.Model,
		enrichEvery:   opts.EnrichEvery,
		enrichTimeout: opts.EnrichTimeout,
	}
}

// Start brings the pipeline to Running: the generator begins emitting for
// ownerID, the consumption loop launches, the sync task starts. Calling
// Start while running does nothing.
func (c *Coordinator) Start(ctx context.Context, ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRunning {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateRunning

	c.generator.Start(runCtx, ownerID)

	c.wg.Add(1)
	go c.consume(runCtx, c.generator.Readings())

	c.syncTask.Start(runCtx)

	c.logger.Info(ctx, "pipeline started", "owner", ownerID)
}

// Stop returns the pipeline to Idle: the generator stops and closes its
// channel, the consumption loop drains what is buffered, the sync task
// stops, the run context is cancelled. Safe to call at any time, any
// number of times, including before the first Start.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return
	}

	c.generator.Stop()
	c.wg.Wait()
	c.syncTask.Stop()
	c.cancel()
	c.cancel = nil
	c.state = StateIdle

	c.logger.Info(context.Background(), "pipeline stopped")
}

// State reports the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Annotation returns the latest annotation, empty until the first
// enrichment call lands.
func (c *Coordinator) Annotation() string {
	c.annotationMu.RLock()
	defer c.annotationMu.RUnlock()
	return c.annotation
}

// consume is the single consumer of the readings channel. It exits when
// the channel closes; the tick counter and enrichment trigger live here
// and nowhere else.
func (c *Coordinator) consume(ctx context.Context, recs <-chan models.Reading) {
	defer c.wg.Done()

	ticks := 0
	for r := range recs {
		if err := c.readings.Insert(ctx, &r); err != nil {
			// best effort, at most once: the reading is dropped
			c.logger.Error(ctx, "failed to persist reading", "id", r.Id, "error", err)
		}

		ticks++
		if ticks > c.enrichEvery {
			ticks = 0
			c.enrich(ctx, r.Id)
		}
	}
}

// enrich performs one Generate call with a fresh random-number prompt,
// writes the returned text onto the reading that triggered the call and
// installs it, or the fallback text, as the latest annotation.
func (c *Coordinator) enrich(ctx context.Context, readingID string) {
	callCtx, cancel := context.WithTimeout(ctx, c.enrichTimeout)
	defer cancel()

	prompt := strconv.FormatInt(rand.Int64N(1000), 10)

	text, err := c.client.Generate(callCtx, c.model, prompt)
	if err != nil {
		c.logger.Warn(ctx, "enrichment failed, using fallback annotation", "error", err)
		text = fallbackAnnotation
	} else if err := c.readings.UpdateAIText(callCtx, readingID, text); err != nil {
		// the reading may be gone already; the annotation itself stands
		c.logger.Warn(ctx, "failed to store annotation", "id", readingID, "error", err)
	}

	c.annotationMu.Lock()
	c.annotation = text
	c.annotationMu.Unlock()

	c.sink.AnnotationUpdated(text)
}
