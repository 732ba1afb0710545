// Package sensor produces the pulse readings the pipeline consumes.
//
// The shipped source, Simulator, synthesizes one reading per tick with a
// uniformly random score. Readings flow through a bounded channel to a
// single consumer; Stop closes the channel so the consumer's range loop
// completes.
package sensor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/pulsekeeper/internal/models"
	"github.com/dmitrijs2005/pulsekeeper/internal/timex"
)

// readingBuffer bounds the producer-consumer handoff.
const readingBuffer = 64

// maxValue is the inclusive upper bound of a synthesized pulse score.
const maxValue = 100

// Simulator emits one synthetic reading per tick. Start and Stop are
// idempotent; Stop before Start is a harmless no-op. Reading synthesis
// itself cannot fail.
type Simulator struct {
	interval time.Duration
	clock    timex.Clock

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	out     chan models.Reading
}

func NewSimulator(interval time.Duration, clock timex.Clock) *Simulator {
	return &Simulator{interval: interval, clock: clock}
}

// Start begins emitting readings scoped to ownerID. Calling Start while
// already running does nothing.
func (s *Simulator) Start(ctx context.Context, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	out := make(chan models.Reading, readingBuffer)
	done := make(chan struct{})

	s.running = true
	s.cancel = cancel
	s.out = out
	s.done = done

	go s.run(runCtx, ownerID, out, done)
}

// Stop halts emission and closes the readings channel, then returns. Safe
// to call at any time, from any goroutine, any number of times.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done

	s.running = false
	s.cancel = nil
}

// Readings returns the channel of the current run. It is nil before the
// first Start; after Stop it is closed, so draining terminates. Each run
// gets a fresh channel.
func (s *Simulator) Readings() <-chan models.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

func (s *Simulator) run(ctx context.Context, ownerID string, out chan<- models.Reading, done chan struct{}) {
	defer close(done)
	defer close(out)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			r := models.Reading{
				Id:        uuid.NewString(),
				OwnerId:   ownerID,
				Value:     rand.Int64N(maxValue + 1),
				CreatedAt: now,
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}
}
