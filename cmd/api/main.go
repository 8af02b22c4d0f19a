package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/home-budget-web/backend/internal/config"
	"github.com/home-budget-web/backend/internal/database"
	"github.com/home-budget-web/backend/internal/expense"
	"github.com/home-budget-web/backend/internal/featureflag"
	budgetHttp "github.com/home-budget-web/backend/internal/http"
	expenseHandler "github.com/home-budget-web/backend/internal/http/expense"
	incomeHandler "github.com/home-budget-web/backend/internal/http/income"
	metaHandler "github.com/home-budget-web/backend/internal/http/meta"
	"github.com/home-budget-web/backend/internal/income"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store"
	"github.com/home-budget-web/backend/internal/store/dualwrite"
	"github.com/home-budget-web/backend/internal/store/jsonfile"
	"github.com/home-budget-web/backend/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		slog.Error("failed to create data dir", "dir", cfg.Storage.DataDir, "error", err)
		os.Exit(1)
	}

	currency := cfg.Storage.DefaultCurrency

	expenseJSON := jsonfile.New(
		filepath.Join(cfg.Storage.DataDir, "expenses.json"), record.SeedExpenses(), currency)
	incomeJSON := jsonfile.New(
		filepath.Join(cfg.Storage.DataDir, "incomes.json"), record.SeedIncomes(), currency)

	var (
		expenseStore store.Store[*record.Expense] = expenseJSON
		incomeStore  store.Store[*record.Income]  = incomeJSON
		flagStore    featureflag.FlagStore
	)

	// The database is optional in development: without it the app runs
	// JSON-only and flags resolve from the environment alone.
	db, err := database.New(cfg.DB.URL, cfg.DB.PoolSize)
	if err != nil {
		slog.Warn("database unavailable, using JSON storage only", "error", err)
	} else {
		defer db.Close()

		if err := database.Migrate(context.Background(), db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}

		flagStore = postgres.NewFlagStore(db)
	}

	flags := featureflag.NewResolver(flagStore)

	if db != nil {
		defaults := dualwrite.Defaults{
			DBPrimary: cfg.Storage.DBPrimary,
			DualWrite: cfg.Storage.DualWrite,
		}

		expenseStore = dualwrite.New[*record.Expense](
			expenseJSON, postgres.NewExpenseStore(db, currency), flags, defaults, "expense")
		incomeStore = dualwrite.New[*record.Income](
			incomeJSON, postgres.NewIncomeStore(db, currency), flags, defaults, "income")
	}

	var (
		expenseService = expense.NewService(expenseStore, flags, currency)
		incomeService  = income.NewService(incomeStore, flags, currency)
	)

	var (
		expenseH = expenseHandler.NewHandler(expenseService)
		incomeH  = incomeHandler.NewHandler(incomeService)
		metaH    = metaHandler.NewHandler(cfg)
	)

	router := budgetHttp.New(expenseH, incomeH, metaH)

	addr := cfg.Addr()
	slog.Info("starting server", "addr", addr, "env", cfg.App.Env, "database_url", cfg.MaskedDatabaseURL())

	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
