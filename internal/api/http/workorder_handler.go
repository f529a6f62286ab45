package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/recurrence"
	"cleanops-backend/internal/service"
)

// WorkOrderHandler exposes the lifecycle manager's operations over JSON.
type WorkOrderHandler struct {
	workOrders service.WorkOrderService
	recurring  service.RecurringWorkOrderService
}

func NewWorkOrderHandler(workOrders service.WorkOrderService, recurring service.RecurringWorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrders: workOrders, recurring: recurring}
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// stampCreator overrides the creator fields with the authenticated caller;
// they are never taken from the request body.
func stampCreator(r *http.Request, input *service.CreateWorkOrderInput) {
	if identity, ok := IdentityFromContext(r.Context()); ok {
		input.CreatedBy = identity.UserID
		input.CreatedByName = identity.Name
	}
}

func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateWorkOrderInput
	if err := decodeStrict(r, &input); err != nil {
		writeError(w, err)
		return
	}
	stampCreator(r, &input)

	wo, err := h.workOrders.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (h *WorkOrderHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var inputs []service.CreateWorkOrderInput
	if err := decodeStrict(r, &inputs); err != nil {
		writeError(w, err)
		return
	}
	for i := range inputs {
		stampCreator(r, &inputs[i])
	}

	created, err := h.workOrders.BulkCreate(r.Context(), inputs)
	resp := struct {
		Created []domain.WorkOrder `json:"created"`
		Failed  string             `json:"failed,omitempty"`
	}{Created: created}
	if err != nil {
		resp.Failed = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

type createRecurringRequest struct {
	Template  service.CreateWorkOrderInput `json:"template"`
	Rule      recurrence.Rule              `json:"rule"`
	StartDate string                       `json:"start_date"`
	EndDate   string                       `json:"end_date"`
}

func (h *WorkOrderHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}
	stampCreator(r, &req.Template)

	created, err := h.recurring.CreateRecurring(r.Context(), req.Template, req.Rule, req.StartDate, req.EndDate)
	if err != nil && len(created) == 0 {
		writeError(w, err)
		return
	}
	resp := struct {
		Created []domain.WorkOrder `json:"created"`
		Failed  string             `json:"failed,omitempty"`
	}{Created: created}
	if err != nil {
		resp.Failed = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

type transitionRequest struct {
	TargetStatus    domain.WorkOrderStatus `json:"target_status"`
	PaidAmountCents *int64                 `json:"paid_amount_cents,omitempty"`
}

func (h *WorkOrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req transitionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	wo, err := h.workOrders.Transition(r.Context(), id, req.TargetStatus, service.TransitionExtra{
		PaidAmountCents: req.PaidAmountCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch service.WorkOrderPatch
	if err := decodeStrict(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	wo, err := h.workOrders.UpdateFields(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.workOrders.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	wo, err := h.workOrders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.workOrders.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// RunAutoApprovalSweep triggers the sweep explicitly. Schedulers normally own
// this; the endpoint exists so operators and tests can invoke it directly.
func (h *WorkOrderHandler) RunAutoApprovalSweep(w http.ResponseWriter, r *http.Request) {
	approved, err := h.workOrders.RunAutoApprovalSweep(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"approved": approved})
}
