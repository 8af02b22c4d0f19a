package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FlagStore reads feature-flag rows. A user-specific row wins over the
// global row (user_id IS NULL) for the same flag name.
type FlagStore struct {
	db *sql.DB
}

func NewFlagStore(db *sql.DB) *FlagStore {
	return &FlagStore{db: db}
}

func (s *FlagStore) Lookup(ctx context.Context, name string, userID *int) (bool, bool, error) {
	if userID != nil {
		enabled, found, err := s.lookupRow(ctx,
			`SELECT enabled FROM feature_flags WHERE name = $1 AND user_id = $2`, name, *userID)
		if err != nil {
			return false, false, err
		}

		if found {
			return enabled, true, nil
		}
	}

	return s.lookupRow(ctx,
		`SELECT enabled FROM feature_flags WHERE name = $1 AND user_id IS NULL`, name)
}

func (s *FlagStore) lookupRow(ctx context.Context, query string, args ...any) (bool, bool, error) {
	var enabled bool

	err := s.db.QueryRowContext(ctx, query, args...).Scan(&enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, nil
		}

		return false, false, fmt.Errorf("looking up feature flag: %w", err)
	}

	return enabled, true, nil
}
