package service

import (
	"context"
	"errors"
	"fmt"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/logger"
	"cleanops-backend/internal/recurrence"
	"cleanops-backend/internal/repository"
)

type recurringWorkOrderService struct {
	orders    WorkOrderService
	customers repository.CustomerRepository
}

func NewRecurringWorkOrderService(orders WorkOrderService, customers repository.CustomerRepository) RecurringWorkOrderService {
	return &recurringWorkOrderService{orders: orders, customers: customers}
}

// CreateRecurring expands the rule and creates one order per date. The batch
// is best-effort: a failed occurrence never rolls back the ones already
// created.
func (s *recurringWorkOrderService) CreateRecurring(ctx context.Context, template CreateWorkOrderInput, rule recurrence.Rule, startDate, endDate string) ([]domain.WorkOrder, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}

	// Resolve the customer once before expanding; an unknown customer fails
	// the whole batch up front instead of once per date.
	if template.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	if _, err := s.customers.GetByID(ctx, template.CustomerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown customer %s", domain.ErrInvalidInput, template.CustomerID)
		}
		return nil, err
	}

	dates, err := recurrence.Expand(rule, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	created := make([]domain.WorkOrder, 0, len(dates))
	var errs []error
	for _, d := range dates {
		occurrence := template
		occurrence.Date = d.Format(dateLayout)
		occurrence.Recurring = true

		wo, err := s.orders.Create(ctx, occurrence)
		if err != nil {
			logger.Warn("Failed to create recurring occurrence",
				"customer_id", template.CustomerID, "date", occurrence.Date, "error", err)
			errs = append(errs, fmt.Errorf("occurrence %s: %w", occurrence.Date, err))
		}
		if wo != nil {
			created = append(created, *wo)
		}
	}
	return created, errors.Join(errs...)
}
