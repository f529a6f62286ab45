package domain

import "time"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Transaction categories used by the reconciliation rules.
const (
	CategoryWorkOrder = "work_order"
	CategoryPayroll   = "payroll"
)

// Transaction is a single income/expense ledger line. Transactions are
// immutable once written; the only delete path is the cascading purge of
// their related work order.
type Transaction struct {
	ID                 string          `json:"id"`
	Type               TransactionType `json:"type"`
	AmountCents        int64           `json:"amount_cents"` // always positive
	Date               string          `json:"date"`         // yyyy-mm-dd
	Category           string          `json:"category"`
	Description        string          `json:"description,omitempty"`
	RelatedCustomerID  string          `json:"related_customer_id,omitempty"`
	RelatedWorkOrderID string          `json:"related_work_order_id,omitempty"`
	RelatedPersonnelID string          `json:"related_personnel_id,omitempty"`
	CreatedBy          string          `json:"created_by"`
	CreatedOn          time.Time       `json:"created_on"`
}
