package dashboard

import (
	"fmt"
	"time"
)

// Period is a calendar month used to scope the aggregation.
type Period struct {
	Month time.Month `json:"mes"`
	Year  int        `json:"ano"`
}

// NewPeriod validates month 1-12 and a 4-digit year.
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidPeriod, month)
	}
	if year < 1000 || year > 9999 {
		return Period{}, fmt.Errorf("%w: year %d is not a 4-digit year", ErrInvalidPeriod, year)
	}
	return Period{Month: time.Month(month), Year: year}, nil
}

// PeriodOf returns the period t falls in.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// Contains reports whether t falls in the period.
func (p Period) Contains(t time.Time) bool {
	return t.Month() == p.Month && t.Year() == p.Year
}

// String renders as M/YYYY, the way the dashboard title shows it.
func (p Period) String() string {
	return fmt.Sprintf("%d/%d", int(p.Month), p.Year)
}

// Key renders as YYYY-MM, used for object keys.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
