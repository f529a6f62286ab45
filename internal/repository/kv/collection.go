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

type collectionRepository struct {
	st storage.Store
}

func NewCollectionRepository(st storage.Store) repository.CollectionRepository {
	return &collectionRepository{st: st}
}

func collectionScope(col *domain.Collection) string {
	if col.RelatedWorkOrderID != "" {
		return col.RelatedWorkOrderID
	}
	return noScope
}

func (r *collectionRepository) Create(ctx context.Context, col *domain.Collection) error {
	if col.ID == "" {
		col.ID = uuid.New().String()
	}
	col.CreatedOn = time.Now().UTC()
	b, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", col.ID, err)
	}
	key := collectionPrefix + collectionScope(col) + "/" + col.ID
	if err := r.st.Set(ctx, key, b); err != nil {
		return storeErr("put collection "+col.ID, err)
	}
	return nil
}

func (r *collectionRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.Collection, error) {
	return r.scan(ctx, collectionPrefix+workOrderID+"/")
}

func (r *collectionRepository) List(ctx context.Context) ([]domain.Collection, error) {
	return r.scan(ctx, collectionPrefix)
}

func (r *collectionRepository) scan(ctx context.Context, prefix string) ([]domain.Collection, error) {
	entries, err := r.st.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, storeErr("scan collections "+prefix, err)
	}
	cols := make([]domain.Collection, 0, len(entries))
	for _, e := range entries {
		var col domain.Collection
		if err := json.Unmarshal(e.Value, &col); err != nil {
			return nil, fmt.Errorf("decode collection at %s: %w", e.Key, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (r *collectionRepository) DeleteByWorkOrder(ctx context.Context, workOrderID string) error {
	prefix := collectionPrefix + workOrderID + "/"
	entries, err := r.st.ScanPrefix(ctx, prefix)
	if err != nil {
		return storeErr("scan collections "+prefix, err)
	}
	for _, e := range entries {
		if err := r.st.Delete(ctx, e.Key); err != nil {
			return storeErr("delete collection at "+e.Key, err)
		}
	}
	return nil
}
