// Package record defines the budget entities (expenses and incomes) shared by
// every storage backend, together with the field-level update rules the
// partial-update API relies on.
package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound signals that no record exists with the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidField signals an update targeting a field the entity does
	// not have (or one that is immutable, like id). Distinct from
	// ErrNotFound so the API can report 422 instead of 404.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidValue signals a value that cannot be coerced into the
	// targeted field's type.
	ErrInvalidValue = errors.New("invalid value")
)

// Record is the common surface the generic stores need from an entity.
type Record interface {
	RecordID() int
	SetRecordID(id int)
	CurrencyCode() string
	SetCurrencyCode(currency string)
	// SetField applies a single-field update by name. Unknown fields and
	// attempts to change id return ErrInvalidField; malformed values
	// return ErrInvalidValue.
	SetField(field string, value any) error
	// CloneRecord returns a deep-enough copy that mutating the clone
	// never aliases the original.
	CloneRecord() Record
}

// Expense is a single spending record.
type Expense struct {
	ID       int     `json:"id"`
	Date     Date    `json:"date"`
	Business *string `json:"business"`
	Category string  `json:"category"`
	Amount   Amount  `json:"amount"`
	Account  string  `json:"account"`
	Currency string  `json:"currency"`
	Notes    *string `json:"notes"`
}

func (e *Expense) RecordID() int { return e.ID }
func (e *Expense) SetRecordID(id int) { e.ID = id }
func (e *Expense) CurrencyCode() string { return e.Currency }
func (e *Expense) SetCurrencyCode(currency string) { e.Currency = currency }

func (e *Expense) CloneRecord() Record {
	c := *e
	return &c
}

func (e *Expense) SetField(field string, value any) error {
	switch field {
	case "date":
		return setDate(&e.Date, field, value)
	case "business":
		return setNullableString(&e.Business, field, value)
	case "category":
		return setString(&e.Category, field, value)
	case "amount":
		return setAmount(&e.Amount, field, value)
	case "account":
		return setString(&e.Account, field, value)
	case "currency":
		return setString(&e.Currency, field, value)
	case "notes":
		return setNullableString(&e.Notes, field, value)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
}

// Income is a single earning record. Same shape as Expense minus the
// business field.
type Income struct {
	ID       int     `json:"id"`
	Date     Date    `json:"date"`
	Category string  `json:"category"`
	Amount   Amount  `json:"amount"`
	Account  string  `json:"account"`
	Currency string  `json:"currency"`
	Notes    *string `json:"notes"`
}

func (i *Income) RecordID() int { return i.ID }
func (i *Income) SetRecordID(id int) { i.ID = id }
func (i *Income) CurrencyCode() string { return i.Currency }
func (i *Income) SetCurrencyCode(currency string) { i.Currency = currency }

func (i *Income) CloneRecord() Record {
	c := *i
	return &c
}

func (i *Income) SetField(field string, value any) error {
	switch field {
	case "date":
		return setDate(&i.Date, field, value)
	case "category":
		return setString(&i.Category, field, value)
	case "amount":
		return setAmount(&i.Amount, field, value)
	case "account":
		return setString(&i.Account, field, value)
	case "currency":
		return setString(&i.Currency, field, value)
	case "notes":
		return setNullableString(&i.Notes, field, value)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
}

func setString(dst *string, field string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: field %q requires a string, got %T", ErrInvalidValue, field, value)
	}

	*dst = s

	return nil
}

func setNullableString(dst **string, field string, value any) error {
	if value == nil {
		*dst = nil
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: field %q requires a string or null, got %T", ErrInvalidValue, field, value)
	}

	*dst = &s

	return nil
}

func setDate(dst *Date, field string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: field %q requires a %q string, got %T", ErrInvalidValue, field, "YYYY-MM-DD", value)
	}

	d, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	*dst = d

	return nil
}

func setAmount(dst *Amount, field string, value any) error {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidValue, field, err)
		}

		dst.Decimal = d
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidValue, field, err)
		}

		dst.Decimal = d
	case float64:
		dst.Decimal = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("%w: field %q requires a number, got %T", ErrInvalidValue, field, value)
	}

	return nil
}
