package repository

import (
	"context"

	"cleanops-backend/internal/domain"
)

type WorkOrderRepository interface {
	Create(ctx context.Context, wo *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	Update(ctx context.Context, wo *domain.WorkOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.WorkOrder, error)
	ListByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]domain.WorkOrder, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.Transaction, error)
	ListByPersonnel(ctx context.Context, personnelID string) ([]domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	DeleteByWorkOrder(ctx context.Context, workOrderID string) error
}

type CollectionRepository interface {
	Create(ctx context.Context, col *domain.Collection) error
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.Collection, error)
	List(ctx context.Context) ([]domain.Collection, error)
	DeleteByWorkOrder(ctx context.Context, workOrderID string) error
}

type PayrollRepository interface {
	// Upsert persists the record keyed by (personnel, date); re-running the
	// same day overwrites cleanly.
	Upsert(ctx context.Context, rec *domain.PayrollRecord) error
	Get(ctx context.Context, personnelID, date string) (*domain.PayrollRecord, error)
	ListByPersonnel(ctx context.Context, personnelID string) ([]domain.PayrollRecord, error)
	// LatestBefore returns the record with the greatest date strictly before
	// date for the personnel, or nil when no history exists.
	LatestBefore(ctx context.Context, personnelID, date string) (*domain.PayrollRecord, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
}

type PersonnelRepository interface {
	Create(ctx context.Context, p *domain.Personnel) error
	GetByID(ctx context.Context, id string) (*domain.Personnel, error)
	List(ctx context.Context) ([]domain.Personnel, error)
}
