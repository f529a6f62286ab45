package http

import (
	"net/http"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/service"
)

// PayrollHandler exposes the payroll ledger over JSON.
type PayrollHandler struct {
	payroll service.PayrollService
}

func NewPayrollHandler(payroll service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: payroll}
}

func (h *PayrollHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var input service.PayrollUpsertInput
	if err := decodeStrict(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if identity, ok := IdentityFromContext(r.Context()); ok {
		input.UpdatedBy = identity.UserID
	}

	rec, err := h.payroll.Upsert(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *PayrollHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	records, previous, err := h.payroll.GetBalances(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Records          []domain.PayrollRecord `json:"records"`
		PreviousBalances map[string]int64       `json:"previous_balances"`
	}{Records: records, PreviousBalances: previous})
}
