// Package events carries the two signals the pipeline exposes to the
// outside: a new annotation and a finished sync cycle. A UI layer would
// subscribe here; the shipped app just logs them.
package events

import (
	"context"

	"github.com/dmitrijs2005/pulsekeeper/internal/logging"
)

// Sink receives pipeline notifications. Implementations must be safe for
// concurrent use and must not block; callers fire and forget.
type Sink interface {
	// AnnotationUpdated fires when the latest annotation changes.
	AnnotationUpdated(text string)

	// SyncCompleted fires after a sync cycle that delivered count readings.
	SyncCompleted(count int)
}

// NopSink drops every signal.
type NopSink struct{}

func (NopSink) AnnotationUpdated(text string) {}
func (NopSink) SyncCompleted(count int)       {}

// LogSink writes every signal to the application log.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) AnnotationUpdated(text string) {
	s.logger.Info(context.Background(), "annotation updated", "text", text)
}

func (s *LogSink) SyncCompleted(count int) {
	s.logger.Info(context.Background(), "sync completed", "count", count)
}
