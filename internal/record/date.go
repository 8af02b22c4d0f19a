package record

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time component. It marshals to and from
// the "YYYY-MM-DD" form used by the API and the JSON files.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a %q string, got %s", "YYYY-MM-DD", s)
	}

	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
