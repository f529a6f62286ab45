package domain

import "time"

// PayrollRecord is one row per (personnel, date) of daily wage activity.
// CarryoverCents is always recomputed from the latest prior record's balance,
// never supplied by the caller.
type PayrollRecord struct {
	PersonnelID       string    `json:"personnel_id"`
	PersonnelName     string    `json:"personnel_name"`
	Date              string    `json:"date"` // yyyy-mm-dd
	CarryoverCents    int64     `json:"carryover_cents"`
	DailyWageCents    int64     `json:"daily_wage_cents"`
	DailyPaymentCents int64     `json:"daily_payment_cents"`
	BalanceCents      int64     `json:"balance_cents"` // carryover + wage - payment
	UpdatedBy         string    `json:"updated_by,omitempty"`
	UpdatedOn         time.Time `json:"updated_on"`
}
