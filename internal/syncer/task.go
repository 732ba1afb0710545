// Package syncer drains unsynced readings to the remote target on a fixed
// schedule.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/events"
	"github.com/dmitrijs2005/pulsekeeper/internal/logging"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/readings"
	"github.com/dmitrijs2005/pulsekeeper/internal/timex"
	"github.com/dmitrijs2005/pulsekeeper/internal/uploader"
)

// markTimeout bounds the MarkSynced call that runs on a cancellation-immune
// context at the end of a cycle.
const markTimeout = 5 * time.Second

// Task periodically fetches unsynced readings, uploads them one by one and
// marks the delivered ones in a single batch. A failed upload leaves its
// reading unsynced for the next cycle; a failed fetch or mark aborts the
// current cycle only. Start and Stop are idempotent.
type Task struct {
	readings readings.Repository
	uploader uploader.Uploader
	sink     events.Sink
	logger   logging.Logger
	clock    timex.Clock
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewTask(r readings.Repository, u uploader.Uploader, sink events.Sink,
	logger logging.Logger, clock timex.Clock, interval time.Duration) *Task {
	return &Task{
		readings: r,
		uploader: u,
		sink:     sink,
		logger:   logger,
		clock:    clock,
		interval: interval,
	}
}

// Start launches the sync loop. Calling Start while running does nothing.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t.running = true
	t.cancel = cancel
	t.done = done

	go t.run(runCtx, done)
}

// Stop interrupts a pending inter-cycle sleep promptly, waits for the loop
// to exit and returns. Safe to call at any time, any number of times.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	t.cancel()
	<-t.done

	t.running = false
	t.cancel = nil
}

func (t *Task) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			t.runCycle(ctx)
		}
	}
}

// runCycle performs one fetch-upload-mark pass.
func (t *Task) runCycle(ctx context.Context) {
	recs, err := t.readings.GetAllUnsynced(ctx)
	if err != nil {
		t.logger.Error(ctx, "failed to fetch unsynced readings", "error", err)
		return
	}
	if len(recs) == 0 {
		return
	}

	synced := make([]string, 0, len(recs))
	for _, r := range recs {
		// graceful drain: the in-flight record finishes, new ones are not
		// picked up after cancellation
		if ctx.Err() != nil {
			break
		}

		if err := t.uploader.Upload(ctx, *r); err != nil {
			t.logger.Warn(ctx, "upload failed, reading stays unsynced", "id", r.Id, "error", err)
			continue
		}
		synced = append(synced, r.Id)
	}

	if len(synced) > 0 {
		// the batch update must not be torn by task cancellation
		markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
		defer cancel()

		if err := t.readings.MarkSynced(markCtx, synced); err != nil {
			t.logger.Error(ctx, "failed to mark readings synced", "count", len(synced), "error", err)
			return
		}
	}

	t.sink.SyncCompleted(len(synced))
}
