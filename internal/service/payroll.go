package service

import (
	"context"
	"errors"
	"fmt"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/logger"
	"cleanops-backend/internal/repository"
)

type payrollService struct {
	payroll   repository.PayrollRepository
	personnel repository.PersonnelRepository
	txs       repository.TransactionRepository
}

func NewPayrollService(
	payroll repository.PayrollRepository,
	personnel repository.PersonnelRepository,
	txs repository.TransactionRepository,
) PayrollService {
	return &payrollService{payroll: payroll, personnel: personnel, txs: txs}
}

func (s *payrollService) Upsert(ctx context.Context, input PayrollUpsertInput) (*domain.PayrollRecord, error) {
	if input.PersonnelID == "" {
		return nil, fmt.Errorf("%w: personnel id is required", domain.ErrInvalidInput)
	}
	if _, err := parseDate(input.Date); err != nil {
		return nil, err
	}
	if input.DailyWageCents < 0 || input.DailyPaymentCents < 0 {
		return nil, fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidInput)
	}

	person, err := s.personnel.GetByID(ctx, input.PersonnelID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown personnel %s", domain.ErrInvalidInput, input.PersonnelID)
	}
	if err != nil {
		return nil, err
	}

	// Carryover is never caller-supplied: it is recomputed from the latest
	// prior record on every write, so re-running a day stays clean.
	prev, err := s.payroll.LatestBefore(ctx, input.PersonnelID, input.Date)
	if err != nil {
		return nil, err
	}
	var carryover int64
	if prev != nil {
		carryover = prev.BalanceCents
	}

	rec := &domain.PayrollRecord{
		PersonnelID:       person.ID,
		PersonnelName:     person.Name,
		Date:              input.Date,
		CarryoverCents:    carryover,
		DailyWageCents:    input.DailyWageCents,
		DailyPaymentCents: input.DailyPaymentCents,
		BalanceCents:      carryover + input.DailyWageCents - input.DailyPaymentCents,
		UpdatedBy:         input.UpdatedBy,
	}
	if err := s.payroll.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	if input.DailyPaymentCents > 0 {
		if err := s.recordWageExpense(ctx, person, input.Date, input.DailyPaymentCents, input.UpdatedBy); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// recordWageExpense writes the expense transaction for a cash payout. The
// amount is gated on what is already recorded for that personnel and day, so
// re-running an upsert does not book the payout twice.
func (s *payrollService) recordWageExpense(ctx context.Context, person *domain.Personnel, date string, paymentCents int64, updatedBy string) error {
	existing, err := s.txs.ListByPersonnel(ctx, person.ID)
	if err != nil {
		return err
	}
	var recorded int64
	for _, tx := range existing {
		if tx.Type == domain.TransactionTypeExpense && tx.Category == domain.CategoryPayroll && tx.Date == date {
			recorded += tx.AmountCents
		}
	}
	delta := paymentCents - recorded
	if delta <= 0 {
		if delta < 0 {
			logger.Warn("Payroll payment lower than recorded expenses, leaving ledger untouched",
				"personnel_id", person.ID, "date", date, "payment_cents", paymentCents, "recorded_cents", recorded)
		}
		return nil
	}

	tx := &domain.Transaction{
		Type:               domain.TransactionTypeExpense,
		AmountCents:        delta,
		Date:               date,
		Category:           domain.CategoryPayroll,
		Description:        "wage payment to " + person.Name,
		RelatedPersonnelID: person.ID,
		CreatedBy:          updatedBy,
	}
	return s.txs.Create(ctx, tx)
}

func (s *payrollService) GetBalances(ctx context.Context, date string) ([]domain.PayrollRecord, map[string]int64, error) {
	if _, err := parseDate(date); err != nil {
		return nil, nil, err
	}
	people, err := s.personnel.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	records := make([]domain.PayrollRecord, 0, len(people))
	previous := make(map[string]int64)
	for _, p := range people {
		rec, err := s.payroll.Get(ctx, p.ID, date)
		if err == nil {
			records = append(records, *rec)
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		prev, err := s.payroll.LatestBefore(ctx, p.ID, date)
		if err != nil {
			return nil, nil, err
		}
		var balance int64
		if prev != nil {
			balance = prev.BalanceCents
		}
		previous[p.ID] = balance
	}
	return records, previous, nil
}
