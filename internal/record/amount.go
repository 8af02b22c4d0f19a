package record

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value with exact two-decimal-place arithmetic.
// It marshals as a plain JSON number with two decimals ("142.50"), which is
// what the API has always returned and what the JSON files contain.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{d}
}

// MustAmount parses a decimal string and panics on failure. For fixtures.
func MustAmount(s string) Amount {
	return Amount{decimal.RequireFromString(s)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", s, err)
	}

	a.Decimal = d

	return nil
}
