package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/home-budget-web/backend/internal/record"
)

type ExpenseStore struct {
	db              *sql.DB
	defaultCurrency string
}

func NewExpenseStore(db *sql.DB, defaultCurrency string) *ExpenseStore {
	return &ExpenseStore{db: db, defaultCurrency: defaultCurrency}
}

const selectExpenseColumns = `id, date, business, category, amount, account, currency, notes`

// scanExpense reads an expense row. Expected column order matches
// selectExpenseColumns.
func scanExpense(s scanner) (*record.Expense, error) {
	var (
		e               record.Expense
		date            time.Time
		business, notes sql.NullString
	)

	if err := s.Scan(
		&e.ID, &date, &business, &e.Category, &e.Amount, &e.Account, &e.Currency, &notes,
	); err != nil {
		return nil, err
	}

	e.Date = record.Date{Time: date}

	if business.Valid {
		e.Business = &business.String
	}

	if notes.Valid {
		e.Notes = &notes.String
	}

	return &e, nil
}

func (s *ExpenseStore) List(ctx context.Context) ([]*record.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*record.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, nil
}

func (s *ExpenseStore) Get(ctx context.Context, id int) (*record.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *ExpenseStore) Create(ctx context.Context, e *record.Expense) (*record.Expense, error) {
	stored := *e
	if stored.Currency == "" {
		stored.Currency = s.defaultCurrency
	}

	query := `
		INSERT INTO expenses (date, business, category, amount, account, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		stored.Date.Time,
		stored.Business,
		stored.Category,
		stored.Amount,
		stored.Account,
		stored.Currency,
		stored.Notes,
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	return &stored, nil
}

func (s *ExpenseStore) Update(ctx context.Context, id int, field string, value any) (*record.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1 FOR UPDATE`

	e, err := scanExpense(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense for update: %w", err)
	}

	if field == "currency" && (value == nil || value == "") {
		e.Currency = s.defaultCurrency
	} else if err := e.SetField(field, value); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE expenses
		SET date = $1, business = $2, category = $3, amount = $4, account = $5, currency = $6, notes = $7
		WHERE id = $8
	`

	if _, err := tx.ExecContext(ctx, updateQuery,
		e.Date.Time,
		e.Business,
		e.Category,
		e.Amount,
		e.Account,
		e.Currency,
		e.Notes,
		e.ID,
	); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return e, nil
}

func (s *ExpenseStore) Replace(ctx context.Context, id int, e *record.Expense) (*record.Expense, error) {
	stored := *e
	stored.ID = id

	if stored.Currency == "" {
		stored.Currency = s.defaultCurrency
	}

	query := `
		UPDATE expenses
		SET date = $1, business = $2, category = $3, amount = $4, account = $5, currency = $6, notes = $7
		WHERE id = $8
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		stored.Date.Time,
		stored.Business,
		stored.Category,
		stored.Amount,
		stored.Account,
		stored.Currency,
		stored.Notes,
		id,
	).Scan(&stored.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("replacing expense: %w", err)
	}

	return &stored, nil
}

func (s *ExpenseStore) Delete(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	return affected > 0, nil
}

func (s *ExpenseStore) BulkDelete(ctx context.Context, ids []int) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ANY($1)`, int64IDs(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk deleting expenses: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk deleting expenses: %w", err)
	}

	return int(affected), nil
}
