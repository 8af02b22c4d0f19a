// Package dualwrite implements the phased storage migration. It satisfies
// the same Store contract as the backends it wraps, so services are unaware
// of which phase is active:
//
//	db_primary=false dual_write=false   JSON only (phase 2)
//	db_primary=false dual_write=true    JSON primary, Postgres shadow (phase 3)
//	db_primary=true  dual_write=true    Postgres primary, JSON shadow (phase 4)
//	db_primary=true  dual_write=false   Postgres only (phase 5)
//
// Flags are resolved on every call, so flipping one takes effect on the
// next operation. Shadow writes are strictly best effort: failures are
// logged and swallowed, the primary result is never altered or rolled
// back, and the two stores can diverge. There is no reconciliation.
package dualwrite

import (
	"context"
	"log/slog"

	"github.com/home-budget-web/backend/internal/featureflag"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store"
)

// Defaults are the flag values used when a storage flag is set neither in
// the environment nor in the flag store. They come from configuration so a
// fresh checkout runs JSON-only without a database.
type Defaults struct {
	DBPrimary bool
	DualWrite bool
}

type Store[R record.Record] struct {
	jsonStore store.Store[R]
	dbStore   store.Store[R]
	flags     *featureflag.Resolver
	defaults  Defaults
	entity    string
}

// New wraps a JSON store and a Postgres store behind flag-driven routing.
// entity names the collection in shadow-failure logs.
func New[R record.Record](jsonStore, dbStore store.Store[R], flags *featureflag.Resolver, defaults Defaults, entity string) *Store[R] {
	return &Store[R]{
		jsonStore: jsonStore,
		dbStore:   dbStore,
		flags:     flags,
		defaults:  defaults,
		entity:    entity,
	}
}

// pick returns (primary, secondary) for this call.
func (s *Store[R]) pick(ctx context.Context) (store.Store[R], store.Store[R]) {
	if s.flags.Resolve(ctx, featureflag.DBPrimary, s.defaults.DBPrimary, nil) {
		return s.dbStore, s.jsonStore
	}

	return s.jsonStore, s.dbStore
}

func (s *Store[R]) shadowEnabled(ctx context.Context) bool {
	return s.flags.Resolve(ctx, featureflag.DualWrite, s.defaults.DualWrite, nil)
}

func (s *Store[R]) logShadowFailure(op string, id any, err error) {
	slog.Error("shadow write failed",
		"entity", s.entity,
		"op", op,
		"id", id,
		"error", err,
	)
}

func (s *Store[R]) List(ctx context.Context) ([]R, error) {
	primary, _ := s.pick(ctx)
	return primary.List(ctx)
}

func (s *Store[R]) Get(ctx context.Context, id int) (R, error) {
	primary, _ := s.pick(ctx)
	return primary.Get(ctx, id)
}

func (s *Store[R]) Create(ctx context.Context, rec R) (R, error) {
	primary, secondary := s.pick(ctx)

	created, err := primary.Create(ctx, rec)
	if err != nil {
		return created, err
	}

	if s.shadowEnabled(ctx) {
		// The secondary assigns its own id; data matches, ids may not.
		if _, err := secondary.Create(ctx, created); err != nil {
			s.logShadowFailure("create", created.RecordID(), err)
		}
	}

	return created, nil
}

func (s *Store[R]) Update(ctx context.Context, id int, field string, value any) (R, error) {
	primary, secondary := s.pick(ctx)

	updated, err := primary.Update(ctx, id, field, value)
	if err != nil {
		return updated, err
	}

	if s.shadowEnabled(ctx) {
		if _, err := secondary.Update(ctx, id, field, value); err != nil {
			s.logShadowFailure("update", id, err)
		}
	}

	return updated, nil
}

func (s *Store[R]) Replace(ctx context.Context, id int, rec R) (R, error) {
	primary, secondary := s.pick(ctx)

	replaced, err := primary.Replace(ctx, id, rec)
	if err != nil {
		return replaced, err
	}

	if s.shadowEnabled(ctx) {
		if _, err := secondary.Replace(ctx, id, rec); err != nil {
			s.logShadowFailure("replace", id, err)
		}
	}

	return replaced, nil
}

func (s *Store[R]) Delete(ctx context.Context, id int) (bool, error) {
	primary, secondary := s.pick(ctx)

	deleted, err := primary.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if s.shadowEnabled(ctx) {
		if _, err := secondary.Delete(ctx, id); err != nil {
			s.logShadowFailure("delete", id, err)
		}
	}

	return deleted, nil
}

func (s *Store[R]) BulkDelete(ctx context.Context, ids []int) (int, error) {
	primary, secondary := s.pick(ctx)

	count, err := primary.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}

	if s.shadowEnabled(ctx) {
		if _, err := secondary.BulkDelete(ctx, ids); err != nil {
			s.logShadowFailure("bulk_delete", ids, err)
		}
	}

	return count, nil
}
