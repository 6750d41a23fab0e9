package models

import "time"

// DailyReport represents the closing snapshot archived at the end of each day.
// Amounts are plain floats so the document stays queryable in MongoDB.
type DailyReport struct {
	Date         time.Time          `bson:"date" json:"date"`
	OrderCount   int                `bson:"order_count" json:"order_count"`
	GrossRevenue float64            `bson:"gross_revenue" json:"gross_revenue"`
	PendingTotal float64            `bson:"pending_total" json:"pending_total"`
	DeliveryFees float64            `bson:"delivery_fees" json:"delivery_fees"`
	ByMethod     map[string]float64 `bson:"by_method" json:"by_method"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
