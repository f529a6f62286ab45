package service

import (
	"context"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/logger"
	"cleanops-backend/internal/repository"
)

type reconciliationService struct {
	orders repository.WorkOrderRepository
	txs    repository.TransactionRepository
	cols   repository.CollectionRepository
}

func NewReconciliationService(
	orders repository.WorkOrderRepository,
	txs repository.TransactionRepository,
	cols repository.CollectionRepository,
) ReconciliationService {
	return &reconciliationService{orders: orders, txs: txs, cols: cols}
}

// ReconcileWorkOrder repairs drift left by an interrupted recognition: when
// the income Transaction landed but its Collection did not, the missing
// amount is backfilled as a single Collection dated to the work order.
func (s *reconciliationService) ReconcileWorkOrder(ctx context.Context, id string) (int64, error) {
	wo, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	txs, err := s.txs.ListByWorkOrder(ctx, id)
	if err != nil {
		return 0, err
	}
	var income int64
	for _, tx := range txs {
		if tx.Type == domain.TransactionTypeIncome {
			income += tx.AmountCents
		}
	}

	cols, err := s.cols.ListByWorkOrder(ctx, id)
	if err != nil {
		return 0, err
	}
	var collected int64
	for _, col := range cols {
		collected += col.AmountCents
	}

	missing := income - collected
	if missing <= 0 {
		return 0, nil
	}

	backfill := &domain.Collection{
		CustomerID:         wo.CustomerID,
		CustomerName:       wo.CustomerName,
		AmountCents:        missing,
		Date:               wo.Date,
		WorkDate:           wo.Date,
		RelatedWorkOrderID: wo.ID,
	}
	if err := s.cols.Create(ctx, backfill); err != nil {
		return 0, err
	}
	logger.Info("Backfilled missing collection", "work_order_id", id, "amount_cents", missing)
	return missing, nil
}

func (s *reconciliationService) ReconcileAll(ctx context.Context) (int, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, wo := range orders {
		missing, err := s.ReconcileWorkOrder(ctx, wo.ID)
		if err != nil {
			logger.Error("Reconciliation failed for work order", "work_order_id", wo.ID, "error", err)
			continue
		}
		if missing > 0 {
			repaired++
		}
	}
	return repaired, nil
}
