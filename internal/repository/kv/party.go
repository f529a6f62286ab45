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

type customerRepository struct {
	st storage.Store
}

func NewCustomerRepository(st storage.Store) repository.CustomerRepository {
	return &customerRepository{st: st}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedOn = time.Now().UTC()
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode customer %s: %w", c.ID, err)
	}
	if err := r.st.Set(ctx, customerPrefix+c.ID, b); err != nil {
		return storeErr("put customer "+c.ID, err)
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	b, err := r.st.Get(ctx, customerPrefix+id)
	if isMissing(err) {
		return nil, notFoundErr("customer", id)
	}
	if err != nil {
		return nil, storeErr("get customer "+id, err)
	}
	var c domain.Customer
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode customer %s: %w", id, err)
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	entries, err := r.st.ScanPrefix(ctx, customerPrefix)
	if err != nil {
		return nil, storeErr("list customers", err)
	}
	customers := make([]domain.Customer, 0, len(entries))
	for _, e := range entries {
		var c domain.Customer
		if err := json.Unmarshal(e.Value, &c); err != nil {
			return nil, fmt.Errorf("decode customer at %s: %w", e.Key, err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

type personnelRepository struct {
	st storage.Store
}

func NewPersonnelRepository(st storage.Store) repository.PersonnelRepository {
	return &personnelRepository{st: st}
}

func (r *personnelRepository) Create(ctx context.Context, p *domain.Personnel) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedOn = time.Now().UTC()
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode personnel %s: %w", p.ID, err)
	}
	if err := r.st.Set(ctx, personnelPrefix+p.ID, b); err != nil {
		return storeErr("put personnel "+p.ID, err)
	}
	return nil
}

func (r *personnelRepository) GetByID(ctx context.Context, id string) (*domain.Personnel, error) {
	b, err := r.st.Get(ctx, personnelPrefix+id)
	if isMissing(err) {
		return nil, notFoundErr("personnel", id)
	}
	if err != nil {
		return nil, storeErr("get personnel "+id, err)
	}
	var p domain.Personnel
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode personnel %s: %w", id, err)
	}
	return &p, nil
}

func (r *personnelRepository) List(ctx context.Context) ([]domain.Personnel, error) {
	entries, err := r.st.ScanPrefix(ctx, personnelPrefix)
	if err != nil {
		return nil, storeErr("list personnel", err)
	}
	people := make([]domain.Personnel, 0, len(entries))
	for _, e := range entries {
		var p domain.Personnel
		if err := json.Unmarshal(e.Value, &p); err != nil {
			return nil, fmt.Errorf("decode personnel at %s: %w", e.Key, err)
		}
		people = append(people, p)
	}
	return people, nil
}
