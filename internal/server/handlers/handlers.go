package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/service/assistant"
	"github.com/mamadbah2/acai-manager/internal/service/cart"
	"github.com/mamadbah2/acai-manager/internal/service/catalog"
	"github.com/mamadbah2/acai-manager/internal/service/checkout"
	"github.com/mamadbah2/acai-manager/internal/service/ledger"
	"github.com/mamadbah2/acai-manager/internal/service/reporting"
	"github.com/mamadbah2/acai-manager/internal/validation"
)

var registerOnce sync.Once

// RegisterValidators installs the shop's enum and decimal rules on gin's
// binding engine. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validation.Register(v)
		}
	})
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrInvalidFee),
		errors.Is(err, reporting.ErrInvalidRange),
		errors.Is(err, assistant.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrUnknownProduct),
		errors.Is(err, checkout.ErrUnknownFee):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrNoPendingEntry),
		errors.Is(err, ledger.ErrAlreadySettled),
		errors.Is(err, ledger.ErrDuplicateSale):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrCannotFinalize),
		errors.Is(err, cart.ErrZeroValue),
		errors.Is(err, cart.ErrInvalidPricePerKg),
		errors.Is(err, ledger.ErrInvalidSettlementMethod):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assistant.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		body.Details = fieldErr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body.Error = "internal error"
	} else {
		logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, logger *zap.Logger, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, logger, validation.Format(err))
		return false
	}
	return true
}

func indexParam(c *gin.Context, logger *zap.Logger) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondError(c, logger, invalidField("index", "must be a non-negative integer"))
		return 0, false
	}
	return index, true
}

func limitQuery(c *gin.Context, logger *zap.Logger, fallback, maxLimit int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 || limit > maxLimit {
		respondError(c, logger, invalidField("limit", "must be between 0 and "+strconv.Itoa(maxLimit)))
		return 0, false
	}
	return limit, true
}

func invalidField(field, message string) error {
	return &validation.FieldError{Fields: map[string]string{field: message}}
}
