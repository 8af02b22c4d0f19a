package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/home-budget-web/backend/internal/record"
)

type IncomeStore struct {
	db              *sql.DB
	defaultCurrency string
}

func NewIncomeStore(db *sql.DB, defaultCurrency string) *IncomeStore {
	return &IncomeStore{db: db, defaultCurrency: defaultCurrency}
}

const selectIncomeColumns = `id, date, category, amount, account, currency, notes`

func scanIncome(s scanner) (*record.Income, error) {
	var (
		in    record.Income
		date  time.Time
		notes sql.NullString
	)

	if err := s.Scan(
		&in.ID, &date, &in.Category, &in.Amount, &in.Account, &in.Currency, &notes,
	); err != nil {
		return nil, err
	}

	in.Date = record.Date{Time: date}

	if notes.Valid {
		in.Notes = &notes.String
	}

	return &in, nil
}

func (s *IncomeStore) List(ctx context.Context) ([]*record.Income, error) {
	query := `SELECT ` + selectIncomeColumns + ` FROM incomes ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*record.Income

	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning income: %w", err)
		}

		incomes = append(incomes, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating income rows: %w", err)
	}

	return incomes, nil
}

func (s *IncomeStore) Get(ctx context.Context, id int) (*record.Income, error) {
	query := `SELECT ` + selectIncomeColumns + ` FROM incomes WHERE id = $1`

	in, err := scanIncome(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("getting income: %w", err)
	}

	return in, nil
}

func (s *IncomeStore) Create(ctx context.Context, in *record.Income) (*record.Income, error) {
	stored := *in
	if stored.Currency == "" {
		stored.Currency = s.defaultCurrency
	}

	query := `
		INSERT INTO incomes (date, category, amount, account, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		stored.Date.Time,
		stored.Category,
		stored.Amount,
		stored.Account,
		stored.Currency,
		stored.Notes,
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("creating income: %w", err)
	}

	return &stored, nil
}

func (s *IncomeStore) Update(ctx context.Context, id int, field string, value any) (*record.Income, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + selectIncomeColumns + ` FROM incomes WHERE id = $1 FOR UPDATE`

	in, err := scanIncome(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("getting income for update: %w", err)
	}

	if field == "currency" && (value == nil || value == "") {
		in.Currency = s.defaultCurrency
	} else if err := in.SetField(field, value); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE incomes
		SET date = $1, category = $2, amount = $3, account = $4, currency = $5, notes = $6
		WHERE id = $7
	`

	if _, err := tx.ExecContext(ctx, updateQuery,
		in.Date.Time,
		in.Category,
		in.Amount,
		in.Account,
		in.Currency,
		in.Notes,
		in.ID,
	); err != nil {
		return nil, fmt.Errorf("updating income: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return in, nil
}

func (s *IncomeStore) Replace(ctx context.Context, id int, in *record.Income) (*record.Income, error) {
	stored := *in
	stored.ID = id

	if stored.Currency == "" {
		stored.Currency = s.defaultCurrency
	}

	query := `
		UPDATE incomes
		SET date = $1, category = $2, amount = $3, account = $4, currency = $5, notes = $6
		WHERE id = $7
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		stored.Date.Time,
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

		return nil, fmt.Errorf("replacing income: %w", err)
	}

	return &stored, nil
}

func (s *IncomeStore) Delete(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting income: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting income: %w", err)
	}

	return affected > 0, nil
}

func (s *IncomeStore) BulkDelete(ctx context.Context, ids []int) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ANY($1)`, int64IDs(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk deleting incomes: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk deleting incomes: %w", err)
	}

	return int(affected), nil
}
