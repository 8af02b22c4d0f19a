// Package expense holds the expense business logic between the HTTP layer
// and the storage backends.
package expense

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/home-budget-web/backend/internal/featureflag"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store"
)

// Store is the expense storage contract; the dual-write controller and both
// backends satisfy it.
type Store = store.Store[*record.Expense]

type Service struct {
	store           Store
	flags           *featureflag.Resolver
	defaultCurrency string
}

func NewService(s Store, flags *featureflag.Resolver, defaultCurrency string) *Service {
	return &Service{store: s, flags: flags, defaultCurrency: defaultCurrency}
}

type CreateParams struct {
	Date     record.Date
	Business *string
	Category string
	Amount   record.Amount
	Account  string
	Currency string
	Notes    *string
}

func (p CreateParams) toRecord(defaultCurrency string) *record.Expense {
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &record.Expense{
		Date:     p.Date,
		Business: p.Business,
		Category: p.Category,
		Amount:   p.Amount,
		Account:  p.Account,
		Currency: currency,
		Notes:    p.Notes,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*record.Expense, error) {
	return s.store.Create(ctx, params.toRecord(s.defaultCurrency))
}

func (s *Service) List(ctx context.Context) ([]*record.Expense, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*record.Expense, error) {
	return s.store.Get(ctx, id)
}

// Update sets one field by name. Returns record.ErrNotFound for an unknown
// id and record.ErrInvalidField for a field the entity does not have.
func (s *Service) Update(ctx context.Context, id int, field string, value any) (*record.Expense, error) {
	return s.store.Update(ctx, id, field, value)
}

// Replace overwrites the whole record, keeping its id.
func (s *Service) Replace(ctx context.Context, id int, params CreateParams) (*record.Expense, error) {
	return s.store.Replace(ctx, id, params.toRecord(s.defaultCurrency))
}

func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *Service) BulkDelete(ctx context.Context, ids []int) (int, error) {
	return s.store.BulkDelete(ctx, ids)
}

// Summary aggregates all expenses. Average, Min and Max are only populated
// when the enhanced_expense_stats flag is enabled for the given user.
type Summary struct {
	Total   decimal.Decimal
	Count   int
	Average *decimal.Decimal
	Min     *decimal.Decimal
	Max     *decimal.Decimal
}

func (s *Service) Summary(ctx context.Context, userID *int) (Summary, error) {
	expenses, err := s.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Total: decimal.Zero, Count: len(expenses)}
	if len(expenses) == 0 {
		return summary, nil
	}

	minAmount := expenses[0].Amount.Decimal
	maxAmount := expenses[0].Amount.Decimal

	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount.Decimal)

		if e.Amount.LessThan(minAmount) {
			minAmount = e.Amount.Decimal
		}

		if e.Amount.GreaterThan(maxAmount) {
			maxAmount = e.Amount.Decimal
		}
	}

	if s.flags.Resolve(ctx, featureflag.EnhancedExpenseStats, false, userID) {
		avg := summary.Total.DivRound(decimal.NewFromInt(int64(summary.Count)), 2)
		summary.Average = &avg
		summary.Min = &minAmount
		summary.Max = &maxAmount
	}

	return summary, nil
}
