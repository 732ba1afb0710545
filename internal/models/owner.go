package models

import "time"

// Owner is a local profile readings are scoped to. The pipeline itself only
// ever consumes Owner.Id; the rest belongs to the session layer.
type Owner struct {
	// Id is a globally unique identifier for the owner.
	Id string

	// Name is a human-readable label, may be empty.
	Name string

	// CreatedAt is the profile creation time in UTC.
	CreatedAt time.Time
}
