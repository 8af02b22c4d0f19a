package expense

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/home-budget-web/backend/internal/featureflag"
	"github.com/home-budget-web/backend/internal/record"
)

var v2Printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with its currency symbol. The
// expense_amount_v2_format flag switches from the plain "142.50 ₪" style to
// thousands-separated "1,234.50 ₪" output.
func (s *Service) FormatAmount(ctx context.Context, amount record.Amount, currency string, userID *int) string {
	if s.flags.Resolve(ctx, featureflag.ExpenseAmountV2Format, false, userID) {
		value, _ := amount.Round(2).Float64()
		return v2Printer.Sprintf("%.2f %s", value, currency)
	}

	return amount.StringFixed(2) + " " + currency
}
