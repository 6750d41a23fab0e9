package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

type appendCall struct {
	sheetRange string
	values     []interface{}
}

type fakeAppender struct {
	mu    sync.Mutex
	calls []appendCall
	err   error
}

func (f *fakeAppender) AppendRow(_ context.Context, sheetRange string, values []interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, appendCall{sheetRange: sheetRange, values: values})
	return f.err
}

func pendingSale() models.Sale {
	xTudo := models.Product{ID: "5", Name: "X-Tudo", Price: decimal.RequireFromString("20.00"), UnitType: models.UnitTypeUnit}
	return models.Sale{
		ID:            "V-1",
		Items:         []models.CartItem{models.NewPricedItem(xTudo, decimal.NewFromInt(2))},
		Subtotal:      decimal.RequireFromString("40"),
		DeliveryFee:   decimal.RequireFromString("5"),
		Total:         decimal.RequireFromString("45"),
		PaymentMethod: models.PaymentMethodPosterior,
		DeliveryType:  models.DeliveryTypeDelivery,
		Region:        "Centro",
		Timestamp:     time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
		CustomerName:  "Maria",
		Status:        models.SaleStatusPending,
	}
}

func TestSaleRow(t *testing.T) {
	row := SaleRow(pendingSale())

	assert.Equal(t, []interface{}{
		"2026-03-14 18:00:00",
		"V-1",
		"X-Tudo",
		"40.00",
		"5.00",
		"45.00",
		"Pagamento Posterior",
		"Entrega",
		"Maria",
		"pendente",
	}, row)
}

func TestMirrorAppendsInBackground(t *testing.T) {
	sheet := &fakeAppender{}
	mirror := NewSalesMirror(sheet, nil)
	ctx := context.Background()

	sale := pendingSale()
	mirror.SaleRecorded(ctx, sale)
	sale.Status = models.SaleStatusPaid
	sale.PaymentMethod = models.PaymentMethodPix
	mirror.SaleSettled(ctx, sale)
	mirror.Wait()

	sheet.mu.Lock()
	defer sheet.mu.Unlock()
	require.Len(t, sheet.calls, 2)

	ranges := []string{sheet.calls[0].sheetRange, sheet.calls[1].sheetRange}
	assert.ElementsMatch(t, []string{salesWriteRange, settlementsWriteRange}, ranges)
	for _, call := range sheet.calls {
		if call.sheetRange == settlementsWriteRange {
			assert.Equal(t, "V-1", call.values[1])
			assert.Equal(t, "Pix", call.values[2])
			assert.Equal(t, "45.00", call.values[3])
		}
	}
}

func TestMirrorSwallowsFailures(t *testing.T) {
	sheet := &fakeAppender{err: errors.New("quota exceeded")}
	mirror := NewSalesMirror(sheet, nil)

	mirror.SaleRecorded(context.Background(), pendingSale())
	mirror.Wait()

	sheet.mu.Lock()
	defer sheet.mu.Unlock()
	assert.Len(t, sheet.calls, 1)
}

func TestClientAppendRow(t *testing.T) {
	var (
		gotQuery  map[string]string
		gotValues [][]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotQuery = map[string]string{
			"valueInputOption": r.URL.Query().Get("valueInputOption"),
			"insertDataOption": r.URL.Query().Get("insertDataOption"),
		}
		var body sheetsapi.ValueRange
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotValues = body.Values
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	service, err := sheetsapi.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	client := &Client{service: service, spreadsheetID: "sheet-1", logger: zap.NewNop()}

	require.NoError(t, client.AppendRow(context.Background(), salesWriteRange, []interface{}{"a", "b"}))
	assert.Equal(t, "RAW", gotQuery["valueInputOption"])
	assert.Equal(t, "INSERT_ROWS", gotQuery["insertDataOption"])
	assert.Equal(t, [][]interface{}{{"a", "b"}}, gotValues)

	assert.Error(t, client.AppendRow(context.Background(), "", nil))
}
