package models

// AppState is a read-only snapshot of the three persisted collections.
type AppState struct {
	Products     []Product     `json:"products"`
	DeliveryFees []DeliveryFee `json:"deliveryFees"`
	Sales        []Sale        `json:"sales"`
}
