// Package income holds the income business logic. Same surface as the
// expense service minus the business field and the formatting helper.
package income

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/home-budget-web/backend/internal/featureflag"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store"
)

type Store = store.Store[*record.Income]

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
	Category string
	Amount   record.Amount
	Account  string
	Currency string
	Notes    *string
}

func (p CreateParams) toRecord(defaultCurrency string) *record.Income {
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &record.Income{
		Date:     p.Date,
		Category: p.Category,
		Amount:   p.Amount,
		Account:  p.Account,
		Currency: currency,
		Notes:    p.Notes,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*record.Income, error) {
	return s.store.Create(ctx, params.toRecord(s.defaultCurrency))
}

func (s *Service) List(ctx context.Context) ([]*record.Income, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*record.Income, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int, field string, value any) (*record.Income, error) {
	return s.store.Update(ctx, id, field, value)
}

func (s *Service) Replace(ctx context.Context, id int, params CreateParams) (*record.Income, error) {
	return s.store.Replace(ctx, id, params.toRecord(s.defaultCurrency))
}

func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *Service) BulkDelete(ctx context.Context, ids []int) (int, error) {
	return s.store.BulkDelete(ctx, ids)
}

// Summary aggregates all incomes, with the same flag-gated enhanced stats
// as the expense summary.
type Summary struct {
	Total   decimal.Decimal
	Count   int
	Average *decimal.Decimal
	Min     *decimal.Decimal
	Max     *decimal.Decimal
}

func (s *Service) Summary(ctx context.Context, userID *int) (Summary, error) {
	incomes, err := s.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Total: decimal.Zero, Count: len(incomes)}
	if len(incomes) == 0 {
		return summary, nil
	}

	minAmount := incomes[0].Amount.Decimal
	maxAmount := incomes[0].Amount.Decimal

	for _, in := range incomes {
		summary.Total = summary.Total.Add(in.Amount.Decimal)

		if in.Amount.LessThan(minAmount) {
			minAmount = in.Amount.Decimal
		}

		if in.Amount.GreaterThan(maxAmount) {
			maxAmount = in.Amount.Decimal
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
