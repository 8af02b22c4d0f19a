package record_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-budget-web/backend/internal/record"
)

func TestExpense_SetField(t *testing.T) {
	base := func() *record.Expense {
		return &record.Expense{
			ID:       1,
			Date:     record.NewDate(2025, time.November, 1),
			Category: "Groceries",
			Amount:   record.MustAmount("142.50"),
			Account:  "Visa 1234",
			Currency: "₪",
		}
	}

	tests := []struct {
		name    string
		field   string
		value   any
		wantErr error
		check   func(t *testing.T, e *record.Expense)
	}{
		{
			name:  "Category",
			field: "category",
			value: "Food",
			check: func(t *testing.T, e *record.Expense) {
				assert.Equal(t, "Food", e.Category)
			},
		},
		{
			name:  "AmountFromNumber",
			field: "amount",
			value: json.Number("99.90"),
			check: func(t *testing.T, e *record.Expense) {
				assert.Equal(t, "99.90", e.Amount.StringFixed(2))
			},
		},
		{
			name:  "Date",
			field: "date",
			value: "2025-12-24",
			check: func(t *testing.T, e *record.Expense) {
				assert.Equal(t, "2025-12-24", e.Date.String())
			},
		},
		{
			name:  "BusinessCleared",
			field: "business",
			value: nil,
			check: func(t *testing.T, e *record.Expense) {
				assert.Nil(t, e.Business)
			},
		},
		{
			name:    "UnknownField",
			field:   "color",
			value:   "red",
			wantErr: record.ErrInvalidField,
		},
		{
			name:    "IDIsImmutable",
			field:   "id",
			value:   7,
			wantErr: record.ErrInvalidField,
		},
		{
			name:    "BadDate",
			field:   "date",
			value:   "24/12/2025",
			wantErr: record.ErrInvalidValue,
		},
		{
			name:    "BadAmountType",
			field:   "amount",
			value:   true,
			wantErr: record.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base()

			err := e.SetField(tt.field, tt.value)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))

				return
			}

			require.NoError(t, err)
			tt.check(t, e)
		})
	}
}

func TestIncome_SetField_NoBusiness(t *testing.T) {
	in := &record.Income{ID: 1, Category: "Salary"}

	err := in.SetField("business", "ACME")
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrInvalidField))
}

func TestExpense_JSONRoundTrip(t *testing.T) {
	notes := "Weekly shopping"
	e := &record.Expense{
		ID:       3,
		Date:     record.NewDate(2025, time.December, 1),
		Category: "Groceries",
		Amount:   record.MustAmount("142.50"),
		Account:  "Visa",
		Currency: "₪",
		Notes:    &notes,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2025-12-01"`)
	assert.Contains(t, string(data), `"amount":142.50`)
	assert.Contains(t, string(data), `"business":null`)

	var decoded record.Expense
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, "2025-12-01", decoded.Date.String())
	assert.True(t, e.Amount.Equal(decoded.Amount.Decimal))
	assert.Nil(t, decoded.Business)
}

func TestCloneRecord_NoAliasing(t *testing.T) {
	e := record.SeedExpenses()[0]

	c := e.CloneRecord().(*record.Expense)
	require.NoError(t, c.SetField("category", "Changed"))

	assert.Equal(t, "Groceries", e.Category)
	assert.Equal(t, "Changed", c.Category)
}
