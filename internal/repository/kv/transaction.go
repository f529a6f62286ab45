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

type transactionRepository struct {
	st storage.Store
}

func NewTransactionRepository(st storage.Store) repository.TransactionRepository {
	return &transactionRepository{st: st}
}

// txScope picks the key segment a transaction is filed under. Work-order
// transactions share the order's prefix so the recognized total and the
// cascade delete are one scan each; payroll expenses are filed under the
// personnel instead.
func txScope(tx *domain.Transaction) string {
	switch {
	case tx.RelatedWorkOrderID != "":
		return tx.RelatedWorkOrderID
	case tx.RelatedPersonnelID != "":
		return "personnel:" + tx.RelatedPersonnelID
	default:
		return noScope
	}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	tx.CreatedOn = time.Now().UTC()
	b, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction %s: %w", tx.ID, err)
	}
	key := txPrefix + txScope(tx) + "/" + tx.ID
	if err := r.st.Set(ctx, key, b); err != nil {
		return storeErr("put transaction "+tx.ID, err)
	}
	return nil
}

func (r *transactionRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.Transaction, error) {
	return r.scan(ctx, txPrefix+workOrderID+"/")
}

func (r *transactionRepository) ListByPersonnel(ctx context.Context, personnelID string) ([]domain.Transaction, error) {
	return r.scan(ctx, txPrefix+"personnel:"+personnelID+"/")
}

func (r *transactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.scan(ctx, txPrefix)
}

func (r *transactionRepository) scan(ctx context.Context, prefix string) ([]domain.Transaction, error) {
	entries, err := r.st.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, storeErr("scan transactions "+prefix, err)
	}
	txs := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		var tx domain.Transaction
		if err := json.Unmarshal(e.Value, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction at %s: %w", e.Key, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (r *transactionRepository) DeleteByWorkOrder(ctx context.Context, workOrderID string) error {
	prefix := txPrefix + workOrderID + "/"
	entries, err := r.st.ScanPrefix(ctx, prefix)
	if err != nil {
		return storeErr("scan transactions "+prefix, err)
	}
	for _, e := range entries {
		if err := r.st.Delete(ctx, e.Key); err != nil {
			return storeErr("delete transaction at "+e.Key, err)
		}
	}
	return nil
}
