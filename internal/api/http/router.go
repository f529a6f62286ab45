package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/security"
)

// NewRouter wires the API routes with authentication and the per-operation
// role rules: admin/secretary may create and mutate, only admin may delete,
// any authenticated caller may read.
func NewRouter(tokens security.TokenManager, workOrders *WorkOrderHandler, payroll *PayrollHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	auth := NewAuthMiddleware(tokens)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Authenticate)

	staff := RequireRoles(domain.RoleAdmin, domain.RoleSecretary)
	adminOnly := RequireRoles(domain.RoleAdmin)

	api.Handle("/work-orders", staff(http.HandlerFunc(workOrders.Create))).Methods(http.MethodPost)
	api.Handle("/work-orders/bulk", staff(http.HandlerFunc(workOrders.BulkCreate))).Methods(http.MethodPost)
	api.Handle("/work-orders/recurring", staff(http.HandlerFunc(workOrders.CreateRecurring))).Methods(http.MethodPost)
	api.Handle("/work-orders/{id}/transition", staff(http.HandlerFunc(workOrders.Transition))).Methods(http.MethodPost)
	api.Handle("/work-orders/{id}", staff(http.HandlerFunc(workOrders.Update))).Methods(http.MethodPatch)
	api.Handle("/work-orders/{id}", adminOnly(http.HandlerFunc(workOrders.Delete))).Methods(http.MethodDelete)
	api.HandleFunc("/work-orders/{id}", workOrders.Get).Methods(http.MethodGet)
	api.HandleFunc("/work-orders", workOrders.List).Methods(http.MethodGet)
	api.Handle("/jobs/auto-approval", staff(http.HandlerFunc(workOrders.RunAutoApprovalSweep))).Methods(http.MethodPost)

	api.Handle("/payroll", staff(http.HandlerFunc(payroll.Upsert))).Methods(http.MethodPost)
	api.HandleFunc("/payroll", payroll.GetBalances).Methods(http.MethodGet)

	return r
}
