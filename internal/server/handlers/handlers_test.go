package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/acai-manager/internal/service/assistant"
	"github.com/mamadbah2/acai-manager/internal/service/cart"
	"github.com/mamadbah2/acai-manager/internal/service/catalog"
	"github.com/mamadbah2/acai-manager/internal/service/checkout"
	"github.com/mamadbah2/acai-manager/internal/service/ledger"
	"github.com/mamadbah2/acai-manager/internal/service/reporting"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{invalidField("price", "is required"), http.StatusBadRequest},
		{fmt.Errorf("%w: name is required", catalog.ErrInvalidProduct), http.StatusBadRequest},
		{catalog.ErrInvalidFee, http.StatusBadRequest},
		{reporting.ErrInvalidRange, http.StatusBadRequest},
		{assistant.ErrEmptyPrompt, http.StatusBadRequest},
		{checkout.ErrUnknownProduct, http.StatusNotFound},
		{checkout.ErrUnknownFee, http.StatusNotFound},
		{cart.ErrNoPendingEntry, http.StatusConflict},
		{fmt.Errorf("%w: V-1", ledger.ErrAlreadySettled), http.StatusConflict},
		{fmt.Errorf("record sale: %w", ledger.ErrDuplicateSale), http.StatusConflict},
		{checkout.ErrCustomerNameRequired, http.StatusUnprocessableEntity},
		{cart.ErrZeroValue, http.StatusUnprocessableEntity},
		{cart.ErrInvalidPricePerKg, http.StatusUnprocessableEntity},
		{ledger.ErrInvalidSettlementMethod, http.StatusUnprocessableEntity},
		{assistant.ErrDisabled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
