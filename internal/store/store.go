// Package store defines the CRUD contract every storage backend implements.
// The JSON file backend, the Postgres backend and the dual-write controller
// all satisfy Store, so higher layers never branch on the backend in use.
package store

import (
	"context"

	"github.com/home-budget-web/backend/internal/record"
)

// Store is the uniform repository contract, generic over the entity type.
//
// Get, Update and Replace report a missing id with record.ErrNotFound;
// Delete reports it through its boolean. Update reports an unknown field
// with record.ErrInvalidField. BulkDelete silently skips absent ids and
// returns how many records were actually removed.
type Store[R record.Record] interface {
	List(ctx context.Context) ([]R, error)
	Get(ctx context.Context, id int) (R, error)
	// Create assigns the id, applies the default currency when the record
	// carries none, persists, and returns the stored record.
	Create(ctx context.Context, rec R) (R, error)
	// Update sets a single field by name. Clearing currency (nil or empty
	// value) re-applies the default instead.
	Update(ctx context.Context, id int, field string, value any) (R, error)
	// Replace overwrites every field of an existing record, keeping its id.
	Replace(ctx context.Context, id int, rec R) (R, error)
	Delete(ctx context.Context, id int) (bool, error)
	BulkDelete(ctx context.Context, ids []int) (int, error)
}
