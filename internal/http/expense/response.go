package expense

import (
	"github.com/shopspring/decimal"

	"github.com/home-budget-web/backend/internal/expense"
	"github.com/home-budget-web/backend/internal/record"
)

// Expense records carry their own JSON tags, so list/get/create responses
// encode them directly; only the aggregate shapes need mapping.

type summaryResponse struct {
	Total   record.Amount  `json:"total"`
	Count   int            `json:"count"`
	Average *record.Amount `json:"average,omitempty"`
	Min     *record.Amount `json:"min,omitempty"`
	Max     *record.Amount `json:"max,omitempty"`
}

func toSummaryResponse(s expense.Summary) summaryResponse {
	resp := summaryResponse{
		Total: record.NewAmount(s.Total),
		Count: s.Count,
	}

	resp.Average = amountPtr(s.Average)
	resp.Min = amountPtr(s.Min)
	resp.Max = amountPtr(s.Max)

	return resp
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

type formatResponse struct {
	Formatted string `json:"formatted"`
}
