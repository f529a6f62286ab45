package domain

import "time"

// Collection is a customer-facing cash-receipt record, denormalized with the
// customer name for reporting. Every income Transaction recognized against a
// work order has exactly one matching Collection of the same amount.
type Collection struct {
	ID                 string    `json:"id"`
	CustomerID         string    `json:"customer_id"`
	CustomerName       string    `json:"customer_name"`
	AmountCents        int64     `json:"amount_cents"`
	Date               string    `json:"date"`      // yyyy-mm-dd
	WorkDate           string    `json:"work_date"` // date of the related work order
	RelatedWorkOrderID string    `json:"related_work_order_id,omitempty"`
	CreatedOn          time.Time `json:"created_on"`
}
