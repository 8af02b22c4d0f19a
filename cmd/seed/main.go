// Command seed populates the database with the sample records used in
// development and smoke tests.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/home-budget-web/backend/internal/config"
	"github.com/home-budget-web/backend/internal/database"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store/postgres"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing expenses and incomes first")
	withFlags := flag.Bool("flags", false, "also seed the storage feature-flag rows (disabled)")
	flag.Parse()

	if err := run(*reset, *withFlags); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(reset, withFlags bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DB.URL, cfg.DB.PoolSize)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	if reset {
		for _, table := range []string{"expenses", "incomes"} {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("resetting %s: %w", table, err)
			}
		}

		slog.Info("cleared existing records")
	}

	currency := cfg.Storage.DefaultCurrency
	expenses := postgres.NewExpenseStore(db, currency)
	incomes := postgres.NewIncomeStore(db, currency)

	for _, e := range record.SeedExpenses() {
		created, err := expenses.Create(ctx, e)
		if err != nil {
			return fmt.Errorf("seeding expense: %w", err)
		}

		slog.Info("seeded expense", "id", created.ID, "category", created.Category)
	}

	for _, in := range record.SeedIncomes() {
		created, err := incomes.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seeding income: %w", err)
		}

		slog.Info("seeded income", "id", created.ID, "category", created.Category)
	}

	if withFlags {
		if err := seedFlags(ctx, db); err != nil {
			return err
		}
	}

	return nil
}

// seedFlags inserts disabled global rows for the storage flags so they can
// be toggled with plain UPDATEs later. UNIQUE (name, user_id) does not
// catch duplicate NULL user_id rows, so dedupe by hand.
func seedFlags(ctx context.Context, db *sql.DB) error {
	flags := []struct {
		name, description string
	}{
		{"db_primary", "Route reads and writes to Postgres instead of the JSON files"},
		{"dual_write", "Shadow every mutation to the secondary store"},
	}

	for _, f := range flags {
		res, err := db.ExecContext(ctx, `
			INSERT INTO feature_flags (name, enabled, user_id, description)
			SELECT $1, FALSE, NULL, $2
			WHERE NOT EXISTS (
				SELECT 1 FROM feature_flags WHERE name = $1 AND user_id IS NULL
			)
		`, f.name, f.description)
		if err != nil {
			return fmt.Errorf("seeding flag %s: %w", f.name, err)
		}

		if n, _ := res.RowsAffected(); n > 0 {
			slog.Info("seeded feature flag", "name", f.name)
		}
	}

	return nil
}
