package service

import (
	"cleanops-backend/internal/domain"
)

// RecognitionDelta is the amount of newly paid money that still needs a
// Transaction+Collection pair, clamped to zero. Gating every recognition on
// this delta is what makes create-then-approve recognize a prepayment exactly
// once.
func RecognitionDelta(newPaidCents, recognizedCents int64) int64 {
	delta := newPaidCents - recognizedCents
	if delta < 0 {
		return 0
	}
	return delta
}

// buildRecognition produces the income Transaction and its 1:1 Collection for
// a positive delta. Both carry the work order's date.
func buildRecognition(wo *domain.WorkOrder, deltaCents int64, createdBy string) (*domain.Transaction, *domain.Collection) {
	tx := &domain.Transaction{
		Type:               domain.TransactionTypeIncome,
		AmountCents:        deltaCents,
		Date:               wo.Date,
		Category:           domain.CategoryWorkOrder,
		Description:        "payment for " + wo.CustomerName,
		RelatedCustomerID:  wo.CustomerID,
		RelatedWorkOrderID: wo.ID,
		CreatedBy:          createdBy,
	}
	col := &domain.Collection{
		CustomerID:         wo.CustomerID,
		CustomerName:       wo.CustomerName,
		AmountCents:        deltaCents,
		Date:               wo.Date,
		WorkDate:           wo.Date,
		RelatedWorkOrderID: wo.ID,
	}
	return tx, col
}
