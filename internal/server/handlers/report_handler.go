package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/service/reporting"
)

// Reports answers dashboard queries.
type Reports interface {
	Summary(start, end string) (reporting.Summary, error)
	Sales(start, end string, limit int) ([]models.Sale, error)
}

// ReportHandler exposes the dashboard projections.
type ReportHandler struct {
	reports Reports
	logger  *zap.Logger
}

// NewReportHandler constructs the reporting HTTP adapter.
func NewReportHandler(reports Reports, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Summary returns revenue, order count, pending total and the method breakdown
// over ?start=&end= (YYYY-MM-DD, both optional).
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Sales lists the filtered sales, most recent first.
func (h *ReportHandler) Sales(c *gin.Context) {
	limit, ok := limitQuery(c, h.logger, reporting.DefaultRecentLimit, maxListLimit)
	if !ok {
		return
	}
	sales, err := h.reports.Sales(c.Query("start"), c.Query("end"), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(sales))
}
