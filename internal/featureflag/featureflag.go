// Package featureflag resolves boolean feature flags used for phased
// rollouts. Resolution order, first match wins:
//
//  1. environment variable FF_<UPPER(NAME)>
//  2. flag store: user-specific row, then the global row (NULL user id)
//  3. the caller-supplied default
//
// A flag-store lookup failure (missing table, connection error) counts as
// "not found" and falls through, it never fails the caller.
package featureflag

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Flag names in use.
const (
	// DBPrimary routes reads and writes to Postgres instead of the JSON
	// files.
	DBPrimary = "db_primary"
	// DualWrite shadows every mutation to the secondary store for
	// rollback safety.
	DualWrite = "dual_write"
	// EnhancedExpenseStats adds average/min/max to summaries.
	EnhancedExpenseStats = "enhanced_expense_stats"
	// ExpenseAmountV2Format switches amount formatting to thousands
	// separators.
	ExpenseAmountV2Format = "expense_amount_v2_format"
)

//go:generate mockgen -source=featureflag.go -destination=flagstore_mock.go -package=featureflag
type FlagStore interface {
	Lookup(ctx context.Context, name string, userID *int) (enabled bool, found bool, err error)
}

type Resolver struct {
	store FlagStore
}

// NewResolver returns a resolver backed by the given store. A nil store is
// valid: resolution then uses only the environment and the default.
func NewResolver(store FlagStore) *Resolver {
	return &Resolver{store: store}
}

// EnvKey returns the environment variable that overrides a flag, e.g.
// "FF_DB_PRIMARY" for "db_primary".
func EnvKey(name string) string {
	return "FF_" + strings.ToUpper(name)
}

// fromEnv reads a flag override from the environment. The second return
// value reports whether the variable held a recognized token.
func fromEnv(name string) (bool, bool) {
	switch strings.ToLower(os.Getenv(EnvKey(name))) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Resolve returns the flag's value for the given user (nil for global
// context), falling back to def when the flag is set nowhere.
func (r *Resolver) Resolve(ctx context.Context, name string, def bool, userID *int) bool {
	if enabled, ok := fromEnv(name); ok {
		return enabled
	}

	if r.store != nil {
		enabled, found, err := r.store.Lookup(ctx, name, userID)
		if err != nil {
			slog.Debug("feature flag lookup failed", "flag", name, "error", err)
		} else if found {
			return enabled
		}
	}

	return def
}
