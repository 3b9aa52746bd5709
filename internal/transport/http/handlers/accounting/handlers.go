package accountinghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fueldesk/internal/domain/accounting"
	"fueldesk/internal/domain/audit"
	domauth "fueldesk/internal/domain/auth"
	"fueldesk/internal/domain/station"
	"fueldesk/internal/transport/http/api"
	"fueldesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *accounting.Service
	Audit   *audit.Service
}

func NewHandler(service *accounting.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/accounting/shifts/{shiftID}/reconciliation", func(r chi.Router) {
		r.With(middleware.RequirePermission(domauth.PermAccountingRead)).
			Get("/", h.handleGet)
		r.With(middleware.RequirePermission(domauth.PermAccountingWrite)).Group(func(r chi.Router) {
			r.Post("/", h.handleCreate)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

type reconciliationPayload struct {
	Electronic    accounting.ElectronicTotals   `json:"electronic"`
	Denominations accounting.DenominationCounts `json:"denominations"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload reconciliationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	rec, err := h.Service.Create(r.Context(), actor, shiftID, payload.Electronic, payload.Denominations)
	if err != nil {
		writeAccountingError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "reconciliation.create", "shift_reconciliation", rec.ID, requestID, nil, rec)
	api.Created(w, rec, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload reconciliationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	before, err := h.Service.GetByShift(r.Context(), actor.TenantID, shiftID)
	if err != nil {
		writeAccountingError(w, err, requestID)
		return
	}

	rec, err := h.Service.Update(r.Context(), actor, shiftID, payload.Electronic, payload.Denominations)
	if err != nil {
		writeAccountingError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "reconciliation.update", "shift_reconciliation", rec.ID, requestID, before, rec)
	api.Success(w, rec, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	before, err := h.Service.GetByShift(r.Context(), actor.TenantID, shiftID)
	if err != nil {
		writeAccountingError(w, err, requestID)
		return
	}

	if err := h.Service.Delete(r.Context(), actor, shiftID); err != nil {
		writeAccountingError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "reconciliation.delete", "shift_reconciliation", before.ID, requestID, before, nil)
	api.Success(w, map[string]string{"shiftId": shiftID, "status": "deleted"}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	rec, err := h.Service.GetByShift(r.Context(), actor.TenantID, chi.URLParam(r, "shiftID"))
	if err != nil {
		writeAccountingError(w, err, requestID)
		return
	}
	api.Success(w, rec, requestID)
}

func writeAccountingError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, accounting.ErrReconciliationNotFound),
		errors.Is(err, station.ErrShiftNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, accounting.ErrNegativeDenomination),
		errors.Is(err, accounting.ErrNegativeAmount):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	case errors.Is(err, accounting.ErrShiftNotClosed),
		errors.Is(err, accounting.ErrAlreadyReconciled):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
