package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/repository"
	"cleanops-backend/internal/storage"
)

type payrollRepository struct {
	st storage.Store
}

func NewPayrollRepository(st storage.Store) repository.PayrollRepository {
	return &payrollRepository{st: st}
}

// payrollKey orders a personnel's history by date, so "latest prior balance"
// is the last matching entry of one personnel's prefix scan.
func payrollKey(personnelID, date string) string {
	return payrollPrefix + personnelID + "/" + date
}

func (r *payrollRepository) Upsert(ctx context.Context, rec *domain.PayrollRecord) error {
	rec.UpdatedOn = time.Now().UTC()
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode payroll record %s/%s: %w", rec.PersonnelID, rec.Date, err)
	}
	if err := r.st.Set(ctx, payrollKey(rec.PersonnelID, rec.Date), b); err != nil {
		return storeErr("put payroll record "+rec.PersonnelID+"/"+rec.Date, err)
	}
	return nil
}

func (r *payrollRepository) Get(ctx context.Context, personnelID, date string) (*domain.PayrollRecord, error) {
	b, err := r.st.Get(ctx, payrollKey(personnelID, date))
	if isMissing(err) {
		return nil, notFoundErr("payroll record", personnelID+"/"+date)
	}
	if err != nil {
		return nil, storeErr("get payroll record "+personnelID+"/"+date, err)
	}
	var rec domain.PayrollRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode payroll record %s/%s: %w", personnelID, date, err)
	}
	return &rec, nil
}

func (r *payrollRepository) ListByPersonnel(ctx context.Context, personnelID string) ([]domain.PayrollRecord, error) {
	prefix := payrollPrefix + personnelID + "/"
	entries, err := r.st.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, storeErr("scan payroll records "+prefix, err)
	}
	recs := make([]domain.PayrollRecord, 0, len(entries))
	for _, e := range entries {
		var rec domain.PayrollRecord
		if err := json.Unmarshal(e.Value, &rec); err != nil {
			return nil, fmt.Errorf("decode payroll record at %s: %w", e.Key, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *payrollRepository) LatestBefore(ctx context.Context, personnelID, date string) (*domain.PayrollRecord, error) {
	prefix := payrollPrefix + personnelID + "/"
	entries, err := r.st.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, storeErr("scan payroll records "+prefix, err)
	}
	// Entries arrive in key (date) order; the last one before the cutoff wins.
	var latest *storage.Entry
	for i := range entries {
		d := strings.TrimPrefix(entries[i].Key, prefix)
		if d >= date {
			break
		}
		latest = &entries[i]
	}
	if latest == nil {
		return nil, nil
	}
	var rec domain.PayrollRecord
	if err := json.Unmarshal(latest.Value, &rec); err != nil {
		return nil, fmt.Errorf("decode payroll record at %s: %w", latest.Key, err)
	}
	return &rec, nil
}
