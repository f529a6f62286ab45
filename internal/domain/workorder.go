package domain

import "time"

type WorkOrderStatus string

const (
	WorkOrderStatusDraft     WorkOrderStatus = "DRAFT"
	WorkOrderStatusApproved  WorkOrderStatus = "APPROVED"
	WorkOrderStatusCompleted WorkOrderStatus = "COMPLETED"
)

// CanAdvanceTo reports whether target is the next status in the
// DRAFT -> APPROVED -> COMPLETED chain. Status never regresses.
func (s WorkOrderStatus) CanAdvanceTo(target WorkOrderStatus) bool {
	switch s {
	case WorkOrderStatusDraft:
		return target == WorkOrderStatusApproved
	case WorkOrderStatusApproved:
		return target == WorkOrderStatusCompleted
	default:
		return false
	}
}

type WorkOrder struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	PersonnelIDs    []string        `json:"personnel_ids,omitempty"`
	Date            string          `json:"date"` // yyyy-mm-dd, no time component
	Description     string          `json:"description,omitempty"`
	TotalAmountCents int64          `json:"total_amount_cents"`
	PaidAmountCents  int64          `json:"paid_amount_cents"`
	Status          WorkOrderStatus `json:"status"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedByName   string          `json:"created_by_name,omitempty"`
	Recurring       bool            `json:"recurring,omitempty"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}
