// Package pipeline wires reading production, persistence, enrichment and
// sync into one lifecycle.
//
// # Overview
//
// The Coordinator consumes readings from a Generator over a bounded
// channel, persists each one, and every so often asks the enrichment
// client for a fresh annotation, which is written back onto the reading
// that triggered the call. It also owns the lifecycle of the sync task,
// so one Start/Stop pair drives the whole pipeline.
//
// # Lifecycle
//
// The Coordinator is a two-state machine, Idle and Running, guarded by a
// mutex. Start from Running and Stop from Idle are no-ops, so callers may
// wire signal handlers without tracking state themselves. Stop first stops
// the generator, which closes the readings channel, then waits for the
// consumption loop to drain everything still buffered, then stops the sync
// task and cancels the run context.
//
// # Failure containment
//
// Nothing in the loop is fatal. A failed insert is logged and the reading
// dropped; a failed enrichment call substitutes a fixed fallback
// annotation; sync failures are contained inside the sync task. The
// latest annotation is observable via Annotation() and through the event
// sink.
//
// # Concurrency
//
// One goroutine produces (the generator), one consumes (the coordinator
// loop), and the sync task runs its own loop against the store. The tick
// counter and annotation belong to the consumption loop alone; Annotation()
// reads the latter under an RWMutex.
//
// Typical usage:
//
//	coord := pipeline.NewCoordinator(gen, client, repo, syncTask, sink, logger, pipeline.Options{
//	    Model: "llama3.2",
//	})
//	coord.Start(ctx, ownerID)
//	defer coord.Stop()
package pipeline
