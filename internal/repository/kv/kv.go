// Package kv implements the repository interfaces on a key-ordered Store.
// Composite keys double as the indexes: a work order's transactions live
// under one prefix, a personnel's payroll history under another, so the
// hot lookups (recognized total, latest prior balance, cascade delete)
// are each a single prefix scan.
package kv

import (
	"errors"
	"fmt"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/repository"
	"cleanops-backend/internal/storage"
)

const (
	workOrderPrefix  = "workorder/"
	txPrefix         = "tx/"
	collectionPrefix = "collection/"
	payrollPrefix    = "payroll/"
	customerPrefix   = "customer/"
	personnelPrefix  = "personnel/"
)

// Store aggregates all KV-backed repositories over one storage backend.
type Store struct {
	repository.WorkOrderRepository
	repository.TransactionRepository
	repository.CollectionRepository
	repository.PayrollRepository
	repository.CustomerRepository
	repository.PersonnelRepository
}

func NewStore(st storage.Store) *Store {
	return &Store{
		WorkOrderRepository:   NewWorkOrderRepository(st),
		TransactionRepository: NewTransactionRepository(st),
		CollectionRepository:  NewCollectionRepository(st),
		PayrollRepository:     NewPayrollRepository(st),
		CustomerRepository:    NewCustomerRepository(st),
		PersonnelRepository:   NewPersonnelRepository(st),
	}
}

// noScope is the key segment for records not tied to a work order.
const noScope = "-"

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

func notFoundErr(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

// isMissing distinguishes an absent key from a store failure.
func isMissing(err error) bool {
	return errors.Is(err, storage.ErrKeyNotFound)
}
