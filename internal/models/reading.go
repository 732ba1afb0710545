// Package models defines the data models shared by the PulseKeeper pipeline.
package models

import "time"

// Reading is one pulse-score sample persisted locally and synced with the
// remote target.
type Reading struct {
	// Id is a globally unique identifier for the reading, immutable once set.
	Id string

	// OwnerId scopes the reading to an owner profile. The store enforces
	// that the owner exists; deleting the owner cascades to its readings.
	OwnerId string

	// Value is the normalized pulse score, 0–100 inclusive.
	Value int64

	// CreatedAt is the creation time as reported by the pipeline clock.
	CreatedAt time.Time

	// AIText is the annotation attached after creation by the pipeline.
	// Empty until an enrichment call lands.
	AIText string

	// Synced reports delivery to the remote target. Starts false and only
	// ever transitions to true.
	Synced bool
}
