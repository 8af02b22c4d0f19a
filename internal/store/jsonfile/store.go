// Package jsonfile persists an entity collection in a single JSON file.
//
// Every mutation rewrites the whole file. A mutex guards in-process access,
// but nothing locks the file itself: two processes pointed at the same file
// will overwrite each other. That is a known, accepted limitation of the
// JSON backend; it exists for development and as the dual-write rollback
// target, not for concurrent production use.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/home-budget-web/backend/internal/record"
)

type Store[R record.Record] struct {
	mu              sync.Mutex
	path            string
	seed            []R
	defaultCurrency string

	loaded  bool
	records []R
}

// New returns a store backed by the JSON file at path. When the file does
// not exist yet, the collection starts from seed (which may be nil).
func New[R record.Record](path string, seed []R, defaultCurrency string) *Store[R] {
	return &Store[R]{
		path:            path,
		seed:            seed,
		defaultCurrency: defaultCurrency,
	}
}

func clone[R record.Record](rec R) R {
	return rec.CloneRecord().(R)
}

// load reads the backing file into memory on first use. Call with mu held.
func (s *Store[R]) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", s.path, err)
		}

		s.records = make([]R, 0, len(s.seed))
		for _, rec := range s.seed {
			s.records = append(s.records, clone(rec))
		}

		s.loaded = true

		return nil
	}

	var records []R
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	s.records = records
	s.loaded = true

	return nil
}

// save rewrites the whole backing file. Call with mu held.
func (s *Store[R]) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	return nil
}

func (s *Store[R]) List(_ context.Context) ([]R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	out := make([]R, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, clone(rec))
	}

	return out, nil
}

func (s *Store[R]) Get(_ context.Context, id int) (R, error) {
	var zero R

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return zero, err
	}

	for _, rec := range s.records {
		if rec.RecordID() == id {
			return clone(rec), nil
		}
	}

	return zero, record.ErrNotFound
}

func (s *Store[R]) Create(_ context.Context, rec R) (R, error) {
	var zero R

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return zero, err
	}

	stored := clone(rec)
	if stored.CurrencyCode() == "" {
		stored.SetCurrencyCode(s.defaultCurrency)
	}

	stored.SetRecordID(s.nextID())
	s.records = append(s.records, stored)

	if err := s.save(); err != nil {
		return zero, err
	}

	return clone(stored), nil
}

// nextID allocates max(id)+1. Ids are never reused while the file keeps the
// highest record, but deleting the newest record does make its id available
// again; same behavior as the original flat-file store.
func (s *Store[R]) nextID() int {
	next := 1

	for _, rec := range s.records {
		if rec.RecordID() >= next {
			next = rec.RecordID() + 1
		}
	}

	return next
}

func (s *Store[R]) Update(_ context.Context, id int, field string, value any) (R, error) {
	var zero R

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return zero, err
	}

	for _, rec := range s.records {
		if rec.RecordID() != id {
			continue
		}

		if field == "currency" && (value == nil || value == "") {
			rec.SetCurrencyCode(s.defaultCurrency)
		} else if err := rec.SetField(field, value); err != nil {
			return zero, err
		}

		if err := s.save(); err != nil {
			return zero, err
		}

		return clone(rec), nil
	}

	return zero, record.ErrNotFound
}

func (s *Store[R]) Replace(_ context.Context, id int, rec R) (R, error) {
	var zero R

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return zero, err
	}

	for i, existing := range s.records {
		if existing.RecordID() != id {
			continue
		}

		stored := clone(rec)
		stored.SetRecordID(id)

		if stored.CurrencyCode() == "" {
			stored.SetCurrencyCode(s.defaultCurrency)
		}

		s.records[i] = stored

		if err := s.save(); err != nil {
			return zero, err
		}

		return clone(stored), nil
	}

	return zero, record.ErrNotFound
}

func (s *Store[R]) Delete(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return false, err
	}

	kept := s.records[:0]

	for _, rec := range s.records {
		if rec.RecordID() != id {
			kept = append(kept, rec)
		}
	}

	removed := len(kept) < len(s.records)
	s.records = kept

	if !removed {
		return false, nil
	}

	if err := s.save(); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Store[R]) BulkDelete(_ context.Context, ids []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return 0, err
	}

	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.records[:0]

	for _, rec := range s.records {
		if _, ok := drop[rec.RecordID()]; !ok {
			kept = append(kept, rec)
		}
	}

	removed := len(s.records) - len(kept)
	s.records = kept

	if err := s.save(); err != nil {
		return 0, err
	}

	return removed, nil
}
