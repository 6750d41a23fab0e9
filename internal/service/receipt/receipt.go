package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

const (
	defaultWidth    = 40
	qtyColumn       = 9
	amountColumn    = 12
	shortIDLength   = 8
	timestampLayout = "02/01/2006 15:04"
)

// Renderer lays out a finalized sale as a fixed-width thermal receipt.
type Renderer struct {
	width    int
	location *time.Location
}

// NewRenderer returns a renderer printing timestamps in loc.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{width: defaultWidth, location: loc}
}

// Render returns the printable receipt of sale. It never mutates the sale.
func (r *Renderer) Render(sale models.Sale) string {
	var b strings.Builder

	r.center(&b, "COMPROVANTE DE PEDIDO")
	r.center(&b, "#"+shortID(sale.ID))
	r.center(&b, sale.Timestamp.In(r.location).Format(timestampLayout))
	r.rule(&b)

	nameWidth := r.width - qtyColumn - amountColumn
	b.WriteString(padRight("ITEM", nameWidth) + padLeft("QTD", qtyColumn) + padLeft("SUBTOTAL", amountColumn) + "\n")
	for _, item := range sale.Items {
		name := truncate(strings.ToUpper(item.Product.Name), nameWidth-1)
		b.WriteString(padRight(name, nameWidth) + padLeft(quantity(item), qtyColumn) + padLeft(money(item.Total()), amountColumn) + "\n")
		b.WriteString("  UNID: " + money(item.Product.Price) + "\n")
	}
	r.rule(&b)

	if sale.CustomerName != "" {
		r.pair(&b, "CLIENTE", sale.CustomerName)
	}
	r.pair(&b, "ATENDIMENTO", sale.DeliveryType.Label())
	if sale.Region != "" {
		r.pair(&b, "REGIÃO", sale.Region)
	}
	delivery := "Grátis"
	if sale.DeliveryFee.IsPositive() {
		delivery = money(sale.DeliveryFee)
	}
	r.pair(&b, "ENTREGA", delivery)
	r.pair(&b, "PAGAMENTO", strings.ToUpper(sale.PaymentMethod.Label()))
	if sale.IsPending() {
		r.pair(&b, "SITUAÇÃO", strings.ToUpper(sale.Status.Label()))
	}
	r.rule(&b)

	r.pair(&b, "TOTAL", money(sale.Total))
	r.rule(&b)
	r.center(&b, "Obrigado pela preferência!")
	r.center(&b, "Volte sempre.")

	return b.String()
}

func (r *Renderer) rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", r.width) + "\n")
}

func (r *Renderer) center(b *strings.Builder, text string) {
	pad := (r.width - utf8.RuneCountInString(text)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}

func (r *Renderer) pair(b *strings.Builder, label, value string) {
	labelWidth := utf8.RuneCountInString(label) + 1
	value = truncate(value, r.width-labelWidth)
	b.WriteString(label + padLeft(value, r.width-utf8.RuneCountInString(label)) + "\n")
}

func quantity(item models.CartItem) string {
	if item.LineKind() == models.LineValueEntered || item.Product.IsWeighed() {
		return item.Quantity.StringFixed(3) + "kg"
	}
	return item.Quantity.String()
}

func money(value decimal.Decimal) string {
	return "R$ " + value.StringFixed(2)
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}

func truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

func padRight(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}

func padLeft(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", width-n) + text
}

// Filename suggests a download name for the receipt of sale.
func Filename(sale models.Sale) string {
	return fmt.Sprintf("comprovante-%s.txt", shortID(sale.ID))
}
