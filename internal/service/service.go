package service

import (
	"context"
	"fmt"
	"time"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/recurrence"
)

const dateLayout = "2006-01-02"

type CreateWorkOrderInput struct {
	CustomerID       string   `json:"customer_id"`
	PersonnelIDs     []string `json:"personnel_ids,omitempty"`
	Date             string   `json:"date"`
	Description      string   `json:"description,omitempty"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	PaidAmountCents  int64    `json:"paid_amount_cents"`
	AutoApprove      bool     `json:"auto_approve,omitempty"`
	Recurring        bool     `json:"recurring,omitempty"`
	CreatedBy        string   `json:"created_by,omitempty"`
	CreatedByName    string   `json:"created_by_name,omitempty"`
}

// TransitionExtra carries the optional per-transition inputs. Only the
// COMPLETED transition reads PaidAmountCents.
type TransitionExtra struct {
	PaidAmountCents *int64 `json:"paid_amount_cents,omitempty"`
}

// WorkOrderPatch enumerates exactly the fields a generic update may touch.
// Status, id and creator are immutable through this path.
type WorkOrderPatch struct {
	Description      *string   `json:"description,omitempty"`
	Date             *string   `json:"date,omitempty"`
	PersonnelIDs     *[]string `json:"personnel_ids,omitempty"`
	TotalAmountCents *int64    `json:"total_amount_cents,omitempty"`
	PaidAmountCents  *int64    `json:"paid_amount_cents,omitempty"`
}

type WorkOrderService interface {
	Create(ctx context.Context, input CreateWorkOrderInput) (*domain.WorkOrder, error)
	BulkCreate(ctx context.Context, inputs []CreateWorkOrderInput) ([]domain.WorkOrder, error)
	Transition(ctx context.Context, id string, target domain.WorkOrderStatus, extra TransitionExtra) (*domain.WorkOrder, error)
	UpdateFields(ctx context.Context, id string, patch WorkOrderPatch) (*domain.WorkOrder, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.WorkOrder, error)
	List(ctx context.Context) ([]domain.WorkOrder, error)
	// Recognized is the sum of income transactions recorded for the order.
	Recognized(ctx context.Context, id string) (int64, error)
	// RunAutoApprovalSweep advances every due draft to APPROVED. Idempotent
	// under concurrent invocation; returns how many orders were approved.
	RunAutoApprovalSweep(ctx context.Context) (int, error)
}

type RecurringWorkOrderService interface {
	CreateRecurring(ctx context.Context, template CreateWorkOrderInput, rule recurrence.Rule, startDate, endDate string) ([]domain.WorkOrder, error)
}

type PayrollUpsertInput struct {
	PersonnelID       string `json:"personnel_id"`
	Date              string `json:"date"`
	DailyWageCents    int64  `json:"daily_wage_cents"`
	DailyPaymentCents int64  `json:"daily_payment_cents"`
	UpdatedBy         string `json:"updated_by,omitempty"`
}

type PayrollService interface {
	Upsert(ctx context.Context, input PayrollUpsertInput) (*domain.PayrollRecord, error)
	// GetBalances returns the records at date plus, for each personnel with
	// no record at date, the balance carried forward from their most recent
	// earlier record (0 when no history exists).
	GetBalances(ctx context.Context, date string) ([]domain.PayrollRecord, map[string]int64, error)
}

type ReconciliationService interface {
	// ReconcileWorkOrder backfills any collection amount missing against the
	// order's recognized income and reports the repaired cents.
	ReconcileWorkOrder(ctx context.Context, id string) (int64, error)
	ReconcileAll(ctx context.Context) (int, error)
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not yyyy-mm-dd", domain.ErrInvalidInput, date)
	}
	return d, nil
}
