package reporting

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

const dateLayout = "2006-01-02"

// ErrInvalidRange is returned for malformed date bounds.
var ErrInvalidRange = errors.New("invalid date range")

// Range is an inclusive span of local calendar days. A nil bound leaves that
// side open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// ParseRange builds a Range from YYYY-MM-DD strings interpreted in loc.
// Empty strings leave the bound open.
func ParseRange(start, end string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.Local
	}

	var r Range
	if start != "" {
		day, err := time.ParseInLocation(dateLayout, start, loc)
		if err != nil {
			return Range{}, fmt.Errorf("%w: start date %q: %v", ErrInvalidRange, start, err)
		}
		from := startOfDay(day)
		r.Start = &from
	}
	if end != "" {
		day, err := time.ParseInLocation(dateLayout, end, loc)
		if err != nil {
			return Range{}, fmt.Errorf("%w: end date %q: %v", ErrInvalidRange, end, err)
		}
		to := endOfDay(day)
		r.End = &to
	}
	return r, nil
}

// Day returns the range covering the local day of t.
func Day(t time.Time) Range {
	from, to := startOfDay(t), endOfDay(t)
	return Range{Start: &from, End: &to}
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Summary aggregates a filtered slice of the ledger.
type Summary struct {
	GrossRevenue           decimal.Decimal                          `json:"grossRevenue"`
	OrderCount             int                                      `json:"orderCount"`
	PendingTotal           decimal.Decimal                          `json:"pendingTotal"`
	PaymentMethodBreakdown map[models.PaymentMethod]decimal.Decimal `json:"paymentMethodBreakdown"`
}

// Filter keeps the sales whose timestamp falls inside r, preserving order.
func Filter(sales []models.Sale, r Range) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if r.Contains(sale.Timestamp) {
			out = append(out, sale)
		}
	}
	return out
}

// Summarize computes the dashboard and report figures over r.
func Summarize(sales []models.Sale, r Range) Summary {
	summary := Summary{
		GrossRevenue:           decimal.Zero,
		PendingTotal:           decimal.Zero,
		PaymentMethodBreakdown: make(map[models.PaymentMethod]decimal.Decimal),
	}
	for _, method := range models.PaymentMethods() {
		summary.PaymentMethodBreakdown[method] = decimal.Zero
	}

	for _, sale := range Filter(sales, r) {
		summary.OrderCount++
		switch sale.Status {
		case models.SaleStatusPaid:
			summary.GrossRevenue = summary.GrossRevenue.Add(sale.Total)
		case models.SaleStatusPending:
			summary.PendingTotal = summary.PendingTotal.Add(sale.Total)
		}
		summary.PaymentMethodBreakdown[sale.PaymentMethod] = summary.PaymentMethodBreakdown[sale.PaymentMethod].Add(sale.Total)
	}
	return summary
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
