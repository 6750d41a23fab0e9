package receipt

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

func sampleSale() models.Sale {
	xTudo := models.Product{ID: "5", Name: "X-Tudo", Price: decimal.RequireFromString("20.00"), Category: models.CategorySnacks, UnitType: models.UnitTypeUnit}
	acai := models.Product{ID: "1", Name: "Açaí Premium (Self-Service)", Price: decimal.RequireFromString("52.00"), Category: models.CategoryAcaiCremes, UnitType: models.UnitTypeWeight}
	amount := decimal.RequireFromString("10.00")
	return models.Sale{
		ID: "V-0192a4f0-7c1e-7d3b-9a55-4c2f8e1b2a3c",
		Items: []models.CartItem{
			models.NewPricedItem(xTudo, decimal.NewFromInt(2)),
			models.NewValueEnteredItem(acai, amount.Div(acai.Price), amount),
		},
		Subtotal:      decimal.RequireFromString("50.00"),
		DeliveryFee:   decimal.RequireFromString("5.00"),
		Total:         decimal.RequireFromString("55.00"),
		PaymentMethod: models.PaymentMethodPosterior,
		DeliveryType:  models.DeliveryTypeDelivery,
		Region:        "Centro",
		Timestamp:     time.Date(2026, 3, 14, 17, 45, 0, 0, time.UTC),
		CustomerName:  "Maria",
		Status:        models.SaleStatusPending,
	}
}

func TestRenderIncludesSaleDetails(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	out := NewRenderer(loc).Render(sampleSale())

	assert.Contains(t, out, "COMPROVANTE DE PEDIDO")
	assert.Contains(t, out, "#8e1b2a3c")
	assert.Contains(t, out, "14/03/2026 14:45")
	assert.Contains(t, out, "X-TUDO")
	assert.Contains(t, out, "R$ 40.00")
	assert.Contains(t, out, "0.192kg")
	assert.Contains(t, out, "UNID: R$ 52.00")
	assert.Contains(t, out, "Maria")
	assert.Contains(t, out, "Centro")
	assert.Contains(t, out, "PAGAMENTO POSTERIOR")
	assert.Contains(t, out, "PENDENTE")
	assert.Contains(t, out, "R$ 55.00")
}

func TestRenderLinesFitWidth(t *testing.T) {
	out := NewRenderer(time.UTC).Render(sampleSale())
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), defaultWidth, line)
	}
}

func TestRenderFreeDeliveryForOnSite(t *testing.T) {
	sale := sampleSale()
	sale.DeliveryType = models.DeliveryTypeOnSite
	sale.DeliveryFee = decimal.Zero
	sale.Region = ""
	sale.CustomerName = ""
	sale.PaymentMethod = models.PaymentMethodPix
	sale.Status = models.SaleStatusPaid

	out := NewRenderer(time.UTC).Render(sale)

	assert.Contains(t, out, "Grátis")
	assert.NotContains(t, out, "CLIENTE")
	assert.NotContains(t, out, "SITUAÇÃO")
	assert.NotContains(t, out, "REGIÃO")
}

func TestRenderDoesNotMutateSale(t *testing.T) {
	sale := sampleSale()
	before := sale.Clone()

	NewRenderer(time.UTC).Render(sale)

	assert.Equal(t, before, sale)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "comprovante-8e1b2a3c.txt", Filename(sampleSale()))
	assert.Equal(t, "comprovante-V-1.txt", Filename(models.Sale{ID: "V-1"}))
}
