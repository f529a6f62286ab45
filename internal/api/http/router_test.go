package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/repository/kv"
	"cleanops-backend/internal/security"
	"cleanops-backend/internal/service"
	"cleanops-backend/internal/storage"
)

type apiEnv struct {
	router   http.Handler
	tokens   security.TokenManager
	store    *kv.Store
	customer *domain.Customer
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	store := kv.NewStore(storage.NewMemoryStore())
	workOrders := service.NewWorkOrderService(
		store.WorkOrderRepository,
		store.TransactionRepository,
		store.CollectionRepository,
		store.CustomerRepository,
	)
	recurring := service.NewRecurringWorkOrderService(workOrders, store.CustomerRepository)
	payroll := service.NewPayrollService(store.PayrollRepository, store.PersonnelRepository, store.TransactionRepository)

	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	router := NewRouter(tokens,
		NewWorkOrderHandler(workOrders, recurring),
		NewPayrollHandler(payroll))

	customer := &domain.Customer{Name: "Acme Offices"}
	require.NoError(t, store.CustomerRepository.Create(context.Background(), customer))

	return &apiEnv{router: router, tokens: tokens, store: store, customer: customer}
}

func (e *apiEnv) request(t *testing.T, role domain.Role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		token, err := e.tokens.GenerateToken("u-"+string(role), "Test "+string(role), role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *apiEnv) createOrder(t *testing.T, body string) domain.WorkOrder {
	t.Helper()
	rec := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/work-orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var wo domain.WorkOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wo))
	return wo
}

func TestRouter_Healthz(t *testing.T) {
	e := newAPIEnv(t)
	rec := e.request(t, "", http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Authentication(t *testing.T) {
	e := newAPIEnv(t)

	t.Run("MissingToken", func(t *testing.T) {
		rec := e.request(t, "", http.MethodGet, "/api/v1/work-orders", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("CleanerMayRead", func(t *testing.T) {
		rec := e.request(t, domain.RoleCleaner, http.MethodGet, "/api/v1/work-orders", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("CleanerMayNotCreate", func(t *testing.T) {
		rec := e.request(t, domain.RoleCleaner, http.MethodPost, "/api/v1/work-orders",
			fmt.Sprintf(`{"customer_id":%q,"date":"2024-03-15","total_amount_cents":100}`, e.customer.ID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRouter_WorkOrderLifecycle(t *testing.T) {
	e := newAPIEnv(t)

	wo := e.createOrder(t, fmt.Sprintf(
		`{"customer_id":%q,"date":"2024-03-15","total_amount_cents":40000,"paid_amount_cents":10000}`, e.customer.ID))
	assert.Equal(t, domain.WorkOrderStatusDraft, wo.Status)
	assert.Equal(t, "u-secretary", wo.CreatedBy, "creator comes from the token, not the body")

	t.Run("Approve", func(t *testing.T) {
		rec := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/work-orders/"+wo.ID+"/transition",
			`{"target_status":"APPROVED"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("InvalidTransitionConflicts", func(t *testing.T) {
		rec := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/work-orders/"+wo.ID+"/transition",
			`{"target_status":"APPROVED"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("CompleteWithPayment", func(t *testing.T) {
		rec := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/work-orders/"+wo.ID+"/transition",
			`{"target_status":"COMPLETED","paid_amount_cents":40000}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var completed domain.WorkOrder
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
		assert.Equal(t, int64(40000), completed.PaidAmountCents)
	})

	t.Run("Patch", func(t *testing.T) {
		other := e.createOrder(t, fmt.Sprintf(
			`{"customer_id":%q,"date":"2024-03-16","total_amount_cents":100}`, e.customer.ID))
		rec := e.request(t, domain.RoleSecretary, http.MethodPatch, "/api/v1/work-orders/"+other.ID,
			`{"description":"windows too"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = e.request(t, domain.RoleSecretary, http.MethodPatch, "/api/v1/work-orders/"+other.ID,
			`{"status":"COMPLETED"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")
	})

	t.Run("Delete", func(t *testing.T) {
		rec := e.request(t, domain.RoleSecretary, http.MethodDelete, "/api/v1/work-orders/"+wo.ID, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, "only admin may delete")

		rec = e.request(t, domain.RoleAdmin, http.MethodDelete, "/api/v1/work-orders/"+wo.ID, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = e.request(t, domain.RoleAdmin, http.MethodGet, "/api/v1/work-orders/"+wo.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_RecurringAndSweep(t *testing.T) {
	e := newAPIEnv(t)

	rec := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/work-orders/recurring",
		fmt.Sprintf(`{
			"template": {"customer_id": %q, "total_amount_cents": 15000},
			"rule": {"frequency": "WEEKLY", "weekday": 3},
			"start_date": "2024-01-01",
			"end_date": "2024-01-31"
		}`, e.customer.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Created []domain.WorkOrder `json:"created"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Created, 5)

	sweep := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/jobs/auto-approval", "")
	require.Equal(t, http.StatusOK, sweep.Code)
	var result map[string]int
	require.NoError(t, json.Unmarshal(sweep.Body.Bytes(), &result))
	assert.Equal(t, 5, result["approved"], "all 2024 dates are past due")
}

func TestRouter_Payroll(t *testing.T) {
	e := newAPIEnv(t)
	person := &domain.Personnel{Name: "Maria"}
	require.NoError(t, e.store.PersonnelRepository.Create(context.Background(), person))

	rec := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/payroll",
		fmt.Sprintf(`{"personnel_id":%q,"date":"2024-03-01","daily_wage_cents":12000,"daily_payment_cents":2000}`, person.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved domain.PayrollRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, int64(10000), saved.BalanceCents)
	assert.Equal(t, "u-secretary", saved.UpdatedBy)

	get := e.request(t, domain.RoleCleaner, http.MethodGet, "/api/v1/payroll?date=2024-03-01", "")
	require.Equal(t, http.StatusOK, get.Code)
	var balances struct {
		Records []domain.PayrollRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &balances))
	require.Len(t, balances.Records, 1)

	bad := e.request(t, domain.RoleSecretary, http.MethodPost, "/api/v1/payroll",
		`{"personnel_id":"missing","date":"2024-03-01","daily_wage_cents":100}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
