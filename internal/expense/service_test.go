package expense_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-budget-web/backend/internal/expense"
	"github.com/home-budget-web/backend/internal/featureflag"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store/jsonfile"
)

func newService(t *testing.T) *expense.Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "expenses.json")
	st := jsonfile.New[*record.Expense](path, nil, "₪")

	return expense.NewService(st, featureflag.NewResolver(nil), "₪")
}

func TestService_CreateAppliesDefaultCurrency(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, expense.CreateParams{
		Date:     record.NewDate(2025, 12, 1),
		Category: "Groceries",
		Amount:   record.MustAmount("142.50"),
		Account:  "Visa",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "₪", created.Currency)
}

func TestService_CreateKeepsExplicitCurrency(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, expense.CreateParams{
		Date:     record.NewDate(2025, 12, 1),
		Category: "Travel",
		Amount:   record.MustAmount("99.00"),
		Account:  "Visa",
		Currency: "EUR",
	})
	require.NoError(t, err)

	assert.Equal(t, "EUR", created.Currency)
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, amount := range []string{"100.00", "50.00", "30.00"} {
		_, err := svc.Create(ctx, expense.CreateParams{
			Date:     record.NewDate(2025, 12, 1),
			Category: "Groceries",
			Amount:   record.MustAmount(amount),
			Account:  "Visa",
		})
		require.NoError(t, err)
	}

	t.Run("BasicStats", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.EnhancedExpenseStats), "false")

		summary, err := svc.Summary(ctx, nil)
		require.NoError(t, err)

		assert.Equal(t, "180.00", summary.Total.StringFixed(2))
		assert.Equal(t, 3, summary.Count)
		assert.Nil(t, summary.Average)
		assert.Nil(t, summary.Min)
		assert.Nil(t, summary.Max)
	})

	t.Run("EnhancedStats", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.EnhancedExpenseStats), "true")

		summary, err := svc.Summary(ctx, nil)
		require.NoError(t, err)

		require.NotNil(t, summary.Average)
		require.NotNil(t, summary.Min)
		require.NotNil(t, summary.Max)
		assert.Equal(t, "60.00", summary.Average.StringFixed(2))
		assert.Equal(t, "30.00", summary.Min.StringFixed(2))
		assert.Equal(t, "100.00", summary.Max.StringFixed(2))
	})
}

func TestService_SummaryEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	t.Setenv(featureflag.EnvKey(featureflag.EnhancedExpenseStats), "true")

	summary, err := svc.Summary(ctx, nil)
	require.NoError(t, err)

	assert.True(t, summary.Total.IsZero())
	assert.Equal(t, 0, summary.Count)
	assert.Nil(t, summary.Average)
}

func TestService_FormatAmount(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	amount := record.MustAmount("1234.50")

	t.Run("V1", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.ExpenseAmountV2Format), "false")

		assert.Equal(t, "1234.50 ₪", svc.FormatAmount(ctx, amount, "₪", nil))
	})

	t.Run("V2ThousandsSeparators", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.ExpenseAmountV2Format), "true")

		assert.Equal(t, "1,234.50 ₪", svc.FormatAmount(ctx, amount, "₪", nil))
	})
}
