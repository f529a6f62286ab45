package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/repository"
	"cleanops-backend/internal/storage"
)

type workOrderRepository struct {
	st storage.Store
}

func NewWorkOrderRepository(st storage.Store) repository.WorkOrderRepository {
	return &workOrderRepository{st: st}
}

func workOrderKey(id string) string { return workOrderPrefix + id }

func (r *workOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	if wo.ID == "" {
		wo.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	wo.CreatedOn = now
	wo.UpdatedOn = now
	return r.put(ctx, wo)
}

func (r *workOrderRepository) Update(ctx context.Context, wo *domain.WorkOrder) error {
	wo.UpdatedOn = time.Now().UTC()
	return r.put(ctx, wo)
}

func (r *workOrderRepository) put(ctx context.Context, wo *domain.WorkOrder) error {
	b, err := json.Marshal(wo)
	if err != nil {
		return fmt.Errorf("encode work order %s: %w", wo.ID, err)
	}
	if err := r.st.Set(ctx, workOrderKey(wo.ID), b); err != nil {
		return storeErr("put work order "+wo.ID, err)
	}
	return nil
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	b, err := r.st.Get(ctx, workOrderKey(id))
	if isMissing(err) {
		return nil, notFoundErr("work order", id)
	}
	if err != nil {
		return nil, storeErr("get work order "+id, err)
	}
	var wo domain.WorkOrder
	if err := json.Unmarshal(b, &wo); err != nil {
		return nil, fmt.Errorf("decode work order %s: %w", id, err)
	}
	return &wo, nil
}

func (r *workOrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.st.Delete(ctx, workOrderKey(id)); err != nil {
		return storeErr("delete work order "+id, err)
	}
	return nil
}

func (r *workOrderRepository) List(ctx context.Context) ([]domain.WorkOrder, error) {
	entries, err := r.st.ScanPrefix(ctx, workOrderPrefix)
	if err != nil {
		return nil, storeErr("list work orders", err)
	}
	orders := make([]domain.WorkOrder, 0, len(entries))
	for _, e := range entries {
		var wo domain.WorkOrder
		if err := json.Unmarshal(e.Value, &wo); err != nil {
			return nil, fmt.Errorf("decode work order at %s: %w", e.Key, err)
		}
		orders = append(orders, wo)
	}
	return orders, nil
}

func (r *workOrderRepository) ListByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]domain.WorkOrder, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := all[:0]
	for _, wo := range all {
		if wo.Status == status {
			filtered = append(filtered, wo)
		}
	}
	return filtered, nil
}
