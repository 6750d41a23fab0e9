package reporting

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// DefaultRecentLimit caps the dashboard's recent sales list.
const DefaultRecentLimit = 15

// SalesSource exposes the ledger contents, most recent first.
type SalesSource interface {
	Sales() []models.Sale
}

// Service answers dashboard and report queries against the ledger.
type Service struct {
	source   SalesSource
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(source SalesSource, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &Service{source: source, location: location, logger: logger, now: time.Now}
}

// Location returns the timezone used to cut calendar days.
func (s *Service) Location() *time.Location {
	return s.location
}

// Summary aggregates the ledger over the given YYYY-MM-DD bounds.
func (s *Service) Summary(start, end string) (Summary, error) {
	r, err := ParseRange(start, end, s.location)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(s.source.Sales(), r), nil
}

// Today aggregates the current local day.
func (s *Service) Today() Summary {
	return Summarize(s.source.Sales(), Day(s.now().In(s.location)))
}

// Sales lists the filtered sales, most recent first, capped at limit when positive.
func (s *Service) Sales(start, end string, limit int) ([]models.Sale, error) {
	r, err := ParseRange(start, end, s.location)
	if err != nil {
		return nil, err
	}
	filtered := Filter(s.source.Sales(), r)
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// DailyReport builds the closing snapshot for the local day containing day.
func (s *Service) DailyReport(day time.Time) models.DailyReport {
	local := day.In(s.location)
	r := Day(local)
	filtered := Filter(s.source.Sales(), r)
	summary := Summarize(filtered, Range{})

	report := models.DailyReport{
		Date:         *r.Start,
		OrderCount:   summary.OrderCount,
		GrossRevenue: summary.GrossRevenue.InexactFloat64(),
		PendingTotal: summary.PendingTotal.InexactFloat64(),
		ByMethod:     make(map[string]float64, len(summary.PaymentMethodBreakdown)),
		CreatedAt:    s.now(),
	}
	for method, total := range summary.PaymentMethodBreakdown {
		report.ByMethod[method.String()] = total.InexactFloat64()
	}
	for _, sale := range filtered {
		report.DeliveryFees += sale.DeliveryFee.InexactFloat64()
	}

	s.logger.Debug("daily report computed",
		zap.String("date", report.Date.Format(dateLayout)),
		zap.Int("orders", report.OrderCount))
	return report
}

// FormatDailyReport renders the closing snapshot as a short chat message.
func (s *Service) FormatDailyReport(report models.DailyReport) string {
	if report.OrderCount == 0 {
		return fmt.Sprintf("Fechamento %s: nenhuma venda registrada.", report.Date.Format(dateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fechamento %s: %d pedidos.\n", report.Date.Format(dateLayout), report.OrderCount)
	fmt.Fprintf(&b, "Faturamento: R$ %.2f\n", report.GrossRevenue)
	fmt.Fprintf(&b, "Pendente: R$ %.2f\n", report.PendingTotal)
	for _, method := range models.PaymentMethods() {
		if total := report.ByMethod[method.String()]; total > 0 {
			fmt.Fprintf(&b, "%s: R$ %.2f\n", method.Label(), total)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
