package income

import (
	"github.com/shopspring/decimal"

	"github.com/home-budget-web/backend/internal/income"
	"github.com/home-budget-web/backend/internal/record"
)

type summaryResponse struct {
	Total   record.Amount  `json:"total"`
	Count   int            `json:"count"`
	Average *record.Amount `json:"average,omitempty"`
	Min     *record.Amount `json:"min,omitempty"`
	Max     *record.Amount `json:"max,omitempty"`
}

func toSummaryResponse(s income.Summary) summaryResponse {
	return summaryResponse{
		Total:   record.NewAmount(s.Total),
		Count:   s.Count,
		Average: amountPtr(s.Average),
		Min:     amountPtr(s.Min),
		Max:     amountPtr(s.Max),
	}
}

func amountPtr(d *decimal.Decimal) *record.Amount {
	if d == nil {
		return nil
	}

	a := record.NewAmount(*d)

	return &a
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}
