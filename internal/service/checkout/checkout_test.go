package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/service/cart"
	"github.com/mamadbah2/acai-manager/internal/service/catalog"
	"github.com/mamadbah2/acai-manager/internal/service/ledger"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func newTestTerminal(t *testing.T) (*Terminal, *ledger.Ledger) {
	t.Helper()
	store := catalog.NewStore(catalog.DefaultProducts(), catalog.DefaultFees(), nil, nil)
	l := ledger.New(nil, nil, nil)
	engine := NewEngine(l, nil)
	engine.now = func() time.Time { return fixedNow }
	return NewTerminal(store, engine, nil), l
}

func TestFinalizeUnitSale(t *testing.T) {
	term, l := newTestTerminal(t)
	ctx := context.Background()

	_, err := term.SelectProduct("5")
	require.NoError(t, err)
	view, err := term.SelectProduct("5")
	require.NoError(t, err)
	assert.Equal(t, "40", view.Total.String())

	_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeOnSite})
	require.NoError(t, err)

	sale, err := term.Finalize(ctx)
	require.NoError(t, err)

	assert.Regexp(t, `^V-[0-9a-f-]{36}$`, sale.ID)
	assert.Equal(t, "40.00", sale.Subtotal.StringFixed(2))
	assert.True(t, sale.DeliveryFee.IsZero())
	assert.Equal(t, "40.00", sale.Total.StringFixed(2))
	assert.Equal(t, models.SaleStatusPaid, sale.Status)
	assert.Equal(t, fixedNow, sale.Timestamp)
	assert.Empty(t, sale.Region)
	assert.Empty(t, sale.CustomerName)

	assert.Equal(t, 1, l.Len())

	after := term.View()
	assert.Empty(t, after.Items, "cart cleared after finalization")
	assert.Equal(t, Selection{}, after.Selection)
}

func TestFinalizeDeliveryAddsFee(t *testing.T) {
	term, _ := newTestTerminal(t)

	_, err := term.AddUnits("5", 2)
	require.NoError(t, err)
	view, err := term.Select(SelectionRequest{
		PaymentMethod: models.PaymentMethodPix,
		DeliveryType:  models.DeliveryTypeDelivery,
		FeeID:         "f1",
	})
	require.NoError(t, err)
	assert.Equal(t, "45", view.Total.String())

	sale, err := term.Finalize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "5.00", sale.DeliveryFee.StringFixed(2))
	assert.Equal(t, "45.00", sale.Total.StringFixed(2))
	assert.Equal(t, "Centro", sale.Region)
}

func TestFeeIgnoredUnlessDelivery(t *testing.T) {
	term, _ := newTestTerminal(t)

	_, err := term.AddUnits("5", 1)
	require.NoError(t, err)
	_, err = term.Select(SelectionRequest{
		PaymentMethod: models.PaymentMethodCash,
		DeliveryType:  models.DeliveryTypePickup,
		FeeID:         "f1",
	})
	require.NoError(t, err)

	sale, err := term.Finalize(context.Background())
	require.NoError(t, err)
	assert.True(t, sale.DeliveryFee.IsZero())
	assert.Empty(t, sale.Region)
}

func TestFinalizeDeferredSaleIsPending(t *testing.T) {
	term, l := newTestTerminal(t)

	_, err := term.AddUnits("5", 2)
	require.NoError(t, err)
	_, err = term.Select(SelectionRequest{
		PaymentMethod: models.PaymentMethodPosterior,
		DeliveryType:  models.DeliveryTypeDelivery,
		FeeID:         "f1",
		CustomerName:  "  Maria ",
	})
	require.NoError(t, err)

	sale, err := term.Finalize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusPending, sale.Status)
	assert.Equal(t, "Maria", sale.CustomerName)
	assert.Equal(t, 1, l.PendingCount())
}

func TestFinalizeWeighedSale(t *testing.T) {
	term, _ := newTestTerminal(t)

	view, err := term.SelectProduct("1")
	require.NoError(t, err)
	require.NotNil(t, view.Pending)

	_, err = term.EnterValue("1000")
	require.NoError(t, err)
	view, err = term.ConfirmValue()
	require.NoError(t, err)
	assert.Nil(t, view.Pending)
	assert.Equal(t, "10", view.Subtotal.String())

	_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodDebit, DeliveryType: models.DeliveryTypeOnSite})
	require.NoError(t, err)

	sale, err := term.Finalize(context.Background())
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "0.19231", sale.Items[0].Quantity.Round(5).String())
	assert.Equal(t, "10.00", sale.Total.StringFixed(2))
}

func TestPriceEditsDoNotRewritePastSales(t *testing.T) {
	store := catalog.NewStore(catalog.DefaultProducts(), catalog.DefaultFees(), nil, nil)
	l := ledger.New(nil, nil, nil)
	term := NewTerminal(store, NewEngine(l, nil), nil)
	ctx := context.Background()

	_, err := term.AddUnits("5", 2)
	require.NoError(t, err)
	_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeOnSite})
	require.NoError(t, err)
	sale, err := term.Finalize(ctx)
	require.NoError(t, err)

	_, ok := store.SetProductPrice(ctx, "5", decimal.RequireFromString("99.00"))
	require.True(t, ok)
	_, ok = store.AdjustProductPrice(ctx, "5", decimal.NewFromInt(1))
	require.True(t, ok)

	stored, found := l.Sale(sale.ID)
	require.True(t, found)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "20.00", stored.Items[0].Product.Price.StringFixed(2))
	assert.Equal(t, "40.00", stored.Items[0].Total().StringFixed(2))
	assert.Equal(t, "40.00", stored.Subtotal.StringFixed(2))
	assert.Equal(t, "40.00", stored.Total.StringFixed(2))
}

func TestFinalizeRefusalsLeaveStateUntouched(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, term *Terminal)
		want  error
	}{
		{
			name: "empty cart",
			setup: func(t *testing.T, term *Terminal) {
				_, err := term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeOnSite})
				require.NoError(t, err)
			},
			want: ErrEmptyCart,
		},
		{
			name: "no payment method",
			setup: func(t *testing.T, term *Terminal) {
				_, err := term.AddUnits("5", 1)
				require.NoError(t, err)
				_, err = term.Select(SelectionRequest{DeliveryType: models.DeliveryTypeOnSite})
				require.NoError(t, err)
			},
			want: ErrPaymentMethodRequired,
		},
		{
			name: "no delivery type",
			setup: func(t *testing.T, term *Terminal) {
				_, err := term.AddUnits("5", 1)
				require.NoError(t, err)
				_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash})
				require.NoError(t, err)
			},
			want: ErrDeliveryTypeRequired,
		},
		{
			name: "delivery without fee",
			setup: func(t *testing.T, term *Terminal) {
				_, err := term.AddUnits("5", 1)
				require.NoError(t, err)
				_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeDelivery})
				require.NoError(t, err)
			},
			want: ErrDeliveryFeeRequired,
		},
		{
			name: "deferred without customer",
			setup: func(t *testing.T, term *Terminal) {
				_, err := term.AddUnits("5", 1)
				require.NoError(t, err)
				_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodPosterior, DeliveryType: models.DeliveryTypeOnSite, CustomerName: "   "})
				require.NoError(t, err)
			},
			want: ErrCustomerNameRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term, l := newTestTerminal(t)
			tc.setup(t, term)
			before := term.View()

			_, err := term.Finalize(context.Background())
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrCannotFinalize)

			assert.Equal(t, 0, l.Len())
			assert.Equal(t, before, term.View())
		})
	}
}

func TestRecorderFailureKeepsCart(t *testing.T) {
	store := catalog.NewStore(catalog.DefaultProducts(), catalog.DefaultFees(), nil, nil)
	l := ledger.New(nil, nil, nil)
	engine := NewEngine(l, nil)
	engine.newID = func() string { return "V-fixed" }
	term := NewTerminal(store, engine, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := term.AddUnits("5", 1)
		require.NoError(t, err)
		_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeOnSite})
		require.NoError(t, err)
	}

	_, err := term.Finalize(ctx)
	require.NoError(t, err)

	_, err = term.AddUnits("5", 1)
	require.NoError(t, err)
	_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeOnSite})
	require.NoError(t, err)

	_, err = term.Finalize(ctx)
	assert.ErrorIs(t, err, ledger.ErrDuplicateSale)
	assert.Len(t, term.View().Items, 1)
	assert.Equal(t, 1, l.Len())
}

func TestUnknownIDs(t *testing.T) {
	term, _ := newTestTerminal(t)

	_, err := term.SelectProduct("missing")
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = term.Select(SelectionRequest{FeeID: "missing"})
	assert.ErrorIs(t, err, ErrUnknownFee)

	_, err = term.AddUnits("1", 1)
	assert.ErrorIs(t, err, ErrUnknownProduct, "weighed products cannot be added by units")

	_, err = term.AddWeighed("5", "100")
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestAddWeighedRejectsZeroAndClosesEntry(t *testing.T) {
	term, _ := newTestTerminal(t)

	_, err := term.AddWeighed("1", "0")
	assert.ErrorIs(t, err, cart.ErrZeroValue)

	view := term.View()
	assert.Nil(t, view.Pending)
	assert.Empty(t, view.Items)
}

func TestClearResetsSelection(t *testing.T) {
	term, _ := newTestTerminal(t)

	_, err := term.AddUnits("5", 1)
	require.NoError(t, err)
	_, err = term.Select(SelectionRequest{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeDelivery, FeeID: "f2"})
	require.NoError(t, err)

	view := term.Clear()
	assert.Empty(t, view.Items)
	assert.Equal(t, Selection{}, view.Selection)
	assert.True(t, view.Total.IsZero())
}

func TestSelectionValidateOrder(t *testing.T) {
	assert.ErrorIs(t, Selection{}.Validate(0), ErrEmptyCart)
	assert.ErrorIs(t, Selection{}.Validate(1), ErrPaymentMethodRequired)
	assert.NoError(t, Selection{PaymentMethod: models.PaymentMethodCash, DeliveryType: models.DeliveryTypeOnSite}.Validate(1))
}
