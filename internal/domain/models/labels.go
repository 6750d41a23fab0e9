package models

// Display labels shown on screens and receipts. Domain code never compares
// against these strings.
var (
	categoryLabels = map[Category]string{
		CategoryAcaiCremes: "Açais, cremes e sorvetes",
		CategorySnacks:     "Lanches",
		CategoryDrinks:     "Bebidas",
	}
	unitTypeLabels = map[UnitType]string{
		UnitTypeUnit:   "Unidade",
		UnitTypeWeight: "Peso (kg)",
	}
	paymentMethodLabels = map[PaymentMethod]string{
		PaymentMethodCredit:    "Crédito",
		PaymentMethodDebit:     "Débito",
		PaymentMethodPix:       "Pix",
		PaymentMethodCash:      "Dinheiro",
		PaymentMethodPosterior: "Pagamento Posterior",
	}
	deliveryTypeLabels = map[DeliveryType]string{
		DeliveryTypeOnSite:   "No Local",
		DeliveryTypePickup:   "Retirada",
		DeliveryTypeDelivery: "Entrega",
	}
	saleStatusLabels = map[SaleStatus]string{
		SaleStatusPaid:    "pago",
		SaleStatusPending: "pendente",
	}
)

// Label returns the display text of the value.
func (c Category) Label() string { return labelOr(categoryLabels, c) }
func (u UnitType) Label() string { return labelOr(unitTypeLabels, u) }
func (p PaymentMethod) Label() string { return labelOr(paymentMethodLabels, p) }
func (d DeliveryType) Label() string { return labelOr(deliveryTypeLabels, d) }
func (s SaleStatus) Label() string { return labelOr(saleStatusLabels, s) }

func labelOr[K ~string](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}

// EnumLabel pairs a domain value with its display text.
type EnumLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EnumCatalog lists every enumeration with its labels, for clients building forms.
type EnumCatalog struct {
	Categories     []EnumLabel `json:"categories"`
	UnitTypes      []EnumLabel `json:"unitTypes"`
	PaymentMethods []EnumLabel `json:"paymentMethods"`
	DeliveryTypes  []EnumLabel `json:"deliveryTypes"`
}

// Enums builds the label catalog.
func Enums() EnumCatalog {
	var out EnumCatalog
	for _, c := range validCategories {
		out.Categories = append(out.Categories, EnumLabel{Value: c.String(), Label: c.Label()})
	}
	for _, u := range validUnitTypes {
		out.UnitTypes = append(out.UnitTypes, EnumLabel{Value: u.String(), Label: u.Label()})
	}
	for _, p := range validPaymentMethods {
		out.PaymentMethods = append(out.PaymentMethods, EnumLabel{Value: p.String(), Label: p.Label()})
	}
	for _, d := range validDeliveryTypes {
		out.DeliveryTypes = append(out.DeliveryTypes, EnumLabel{Value: d.String(), Label: d.Label()})
	}
	return out
}
