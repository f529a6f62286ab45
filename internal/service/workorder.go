package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/logger"
	"cleanops-backend/internal/repository"
)

type workOrderService struct {
	orders    repository.WorkOrderRepository
	txs       repository.TransactionRepository
	cols      repository.CollectionRepository
	customers repository.CustomerRepository
}

func NewWorkOrderService(
	orders repository.WorkOrderRepository,
	txs repository.TransactionRepository,
	cols repository.CollectionRepository,
	customers repository.CustomerRepository,
) WorkOrderService {
	return &workOrderService{
		orders:    orders,
		txs:       txs,
		cols:      cols,
		customers: customers,
	}
}

func (s *workOrderService) Create(ctx context.Context, input CreateWorkOrderInput) (*domain.WorkOrder, error) {
	if input.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	if input.Date == "" {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if _, err := parseDate(input.Date); err != nil {
		return nil, err
	}
	if input.TotalAmountCents < 0 || input.PaidAmountCents < 0 {
		return nil, fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidInput)
	}
	if input.PaidAmountCents > input.TotalAmountCents {
		return nil, fmt.Errorf("%w: payment amount exceeds remaining balance", domain.ErrInvalidInput)
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown customer %s", domain.ErrInvalidInput, input.CustomerID)
	}
	if err != nil {
		return nil, err
	}

	wo := &domain.WorkOrder{
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		CustomerAddress:  customer.Address,
		PersonnelIDs:     input.PersonnelIDs,
		Date:             input.Date,
		Description:      input.Description,
		TotalAmountCents: input.TotalAmountCents,
		PaidAmountCents:  input.PaidAmountCents,
		Status:           domain.WorkOrderStatusDraft,
		CreatedBy:        input.CreatedBy,
		CreatedByName:    input.CreatedByName,
		Recurring:        input.Recurring,
	}
	if input.AutoApprove {
		now := time.Now().UTC()
		wo.Status = domain.WorkOrderStatusApproved
		wo.ApprovedAt = &now
	}

	if err := s.orders.Create(ctx, wo); err != nil {
		return nil, err
	}

	// A caller may pre-pay an order that is still a draft; the payment is
	// recognized either way.
	if wo.PaidAmountCents > 0 {
		if err := s.recognize(ctx, wo); err != nil {
			return wo, err
		}
	}
	return wo, nil
}

func (s *workOrderService) BulkCreate(ctx context.Context, inputs []CreateWorkOrderInput) ([]domain.WorkOrder, error) {
	created := make([]domain.WorkOrder, 0, len(inputs))
	var errs []error
	for i, input := range inputs {
		wo, err := s.Create(ctx, input)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
		if wo != nil {
			created = append(created, *wo)
		}
	}
	return created, errors.Join(errs...)
}

func (s *workOrderService) Transition(ctx context.Context, id string, target domain.WorkOrderStatus, extra TransitionExtra) (*domain.WorkOrder, error) {
	wo, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !wo.Status.CanAdvanceTo(target) {
		return nil, fmt.Errorf("%w: work order %s cannot move from %s to %s",
			domain.ErrInvalidTransition, id, wo.Status, target)
	}

	now := time.Now().UTC()
	switch target {
	case domain.WorkOrderStatusApproved:
		wo.Status = domain.WorkOrderStatusApproved
		wo.ApprovedAt = &now
	case domain.WorkOrderStatusCompleted:
		if extra.PaidAmountCents != nil {
			newPaid := *extra.PaidAmountCents
			if newPaid < wo.PaidAmountCents {
				return nil, fmt.Errorf("%w: paid amount cannot decrease", domain.ErrInvalidInput)
			}
			if newPaid > wo.TotalAmountCents {
				return nil, fmt.Errorf("%w: payment amount exceeds remaining balance", domain.ErrInvalidInput)
			}
			wo.PaidAmountCents = newPaid
		}
		wo.Status = domain.WorkOrderStatusCompleted
		wo.CompletedAt = &now
	}

	if err := s.orders.Update(ctx, wo); err != nil {
		return nil, err
	}

	// Recognition is delta-gated, so a payment already recognized at create
	// time is not recognized again here.
	if wo.PaidAmountCents > 0 {
		if err := s.recognize(ctx, wo); err != nil {
			return wo, err
		}
	}
	return wo, nil
}

func (s *workOrderService) UpdateFields(ctx context.Context, id string, patch WorkOrderPatch) (*domain.WorkOrder, error) {
	wo, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		wo.Description = *patch.Description
	}
	if patch.Date != nil {
		if _, err := parseDate(*patch.Date); err != nil {
			return nil, err
		}
		wo.Date = *patch.Date
	}
	if patch.PersonnelIDs != nil {
		wo.PersonnelIDs = *patch.PersonnelIDs
	}
	if patch.TotalAmountCents != nil {
		if *patch.TotalAmountCents < 0 {
			return nil, fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidInput)
		}
		wo.TotalAmountCents = *patch.TotalAmountCents
	}
	paidIncreased := false
	if patch.PaidAmountCents != nil {
		newPaid := *patch.PaidAmountCents
		if newPaid < wo.PaidAmountCents {
			return nil, fmt.Errorf("%w: paid amount cannot decrease", domain.ErrInvalidInput)
		}
		paidIncreased = newPaid > wo.PaidAmountCents
		wo.PaidAmountCents = newPaid
	}
	if wo.PaidAmountCents > wo.TotalAmountCents {
		return nil, fmt.Errorf("%w: payment amount exceeds remaining balance", domain.ErrInvalidInput)
	}

	if err := s.orders.Update(ctx, wo); err != nil {
		return nil, err
	}

	if paidIncreased {
		if err := s.recognize(ctx, wo); err != nil {
			return wo, err
		}
	}
	return wo, nil
}

func (s *workOrderService) Delete(ctx context.Context, id string) error {
	wo, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wo.Status != domain.WorkOrderStatusApproved && wo.Status != domain.WorkOrderStatusCompleted {
		return fmt.Errorf("%w: only approved or completed work orders can be deleted", domain.ErrInvalidTransition)
	}

	if err := s.txs.DeleteByWorkOrder(ctx, id); err != nil {
		return err
	}
	if err := s.cols.DeleteByWorkOrder(ctx, id); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Deleted work order with cascading purge", "work_order_id", id)
	return nil
}

func (s *workOrderService) Get(ctx context.Context, id string) (*domain.WorkOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *workOrderService) List(ctx context.Context) ([]domain.WorkOrder, error) {
	return s.orders.List(ctx)
}

func (s *workOrderService) Recognized(ctx context.Context, id string) (int64, error) {
	txs, err := s.txs.ListByWorkOrder(ctx, id)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, tx := range txs {
		if tx.Type == domain.TransactionTypeIncome {
			sum += tx.AmountCents
		}
	}
	return sum, nil
}

func (s *workOrderService) RunAutoApprovalSweep(ctx context.Context) (int, error) {
	drafts, err := s.orders.ListByStatus(ctx, domain.WorkOrderStatusDraft)
	if err != nil {
		return 0, err
	}
	today := time.Now().UTC().Format(dateLayout)

	approved := 0
	for _, draft := range drafts {
		if draft.Date > today {
			continue
		}
		// Re-read immediately before transitioning: a concurrent sweep may
		// already have advanced this order, in which case we skip, not error.
		cur, err := s.orders.GetByID(ctx, draft.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			logger.Error("Auto-approval sweep read failed", "work_order_id", draft.ID, "error", err)
			continue
		}
		if cur.Status != domain.WorkOrderStatusDraft {
			continue
		}
		if _, err := s.Transition(ctx, draft.ID, domain.WorkOrderStatusApproved, TransitionExtra{}); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue // lost the race to another sweep
			}
			logger.Error("Auto-approval failed", "work_order_id", draft.ID, "error", err)
			continue
		}
		approved++
	}
	if approved > 0 {
		logger.Info("Auto-approval sweep advanced due drafts", "approved", approved)
	}
	return approved, nil
}

// recognize records the unrecognized part of the order's paid amount as one
// Transaction+Collection pair. The two writes are not atomic; a partial
// failure is surfaced as a RecognitionError and must not be blindly retried.
func (s *workOrderService) recognize(ctx context.Context, wo *domain.WorkOrder) error {
	recognized, err := s.Recognized(ctx, wo.ID)
	if err != nil {
		return err
	}
	delta := RecognitionDelta(wo.PaidAmountCents, recognized)
	if delta == 0 {
		return nil
	}

	tx, col := buildRecognition(wo, delta, wo.CreatedBy)
	if err := s.txs.Create(ctx, tx); err != nil {
		recErr := &domain.RecognitionError{WorkOrderID: wo.ID, DeltaCents: delta, TransactionWritten: false, Err: err}
		logger.Error("Payment recognition failed", "work_order_id", wo.ID, "delta_cents", delta, "transaction_written", false, "error", err)
		return recErr
	}
	if err := s.cols.Create(ctx, col); err != nil {
		recErr := &domain.RecognitionError{WorkOrderID: wo.ID, DeltaCents: delta, TransactionWritten: true, Err: err}
		logger.Error("Payment recognition failed", "work_order_id", wo.ID, "delta_cents", delta, "transaction_written", true, "error", err)
		return recErr
	}
	return nil
}
