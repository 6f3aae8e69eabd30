// Package snapshot persists the whole job collection as one serialized
// document under a single key, overwritten wholesale on every save. No
// incremental writes, no schema versioning: the snapshot is an opaque JSON
// array of jobs whichever driver holds it.
package snapshot

import (
	"context"

	"garage-tracker/internal/entity"
)

type Store interface {
	// Load returns the last saved collection. A missing snapshot is not an
	// error: drivers return (nil, nil) so callers can fall back to seed data.
	Load(ctx context.Context) ([]entity.Job, error)
	// Save overwrites the snapshot with the given collection.
	Save(ctx context.Context, jobs []entity.Job) error
}
