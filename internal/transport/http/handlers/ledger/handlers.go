package ledgerhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fueldesk/internal/domain/audit"
	domauth "fueldesk/internal/domain/auth"
	"fueldesk/internal/domain/ledger"
	"fueldesk/internal/transport/http/api"
	"fueldesk/internal/transport/http/middleware"
	"fueldesk/internal/transport/http/shared"
)

type Handler struct {
	Service *ledger.Service
	Audit   *audit.Service
}

func NewHandler(service *ledger.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(domauth.PermLedgerRead)).Group(func(r chi.Router) {
		r.Get("/workers/{workerID}/ledger", h.handleStatement)
		r.Get("/workers/{workerID}/ledger/pdf", h.handleStatementPDF)
	})
	r.With(middleware.RequirePermission(domauth.PermPayrollWrite)).Group(func(r chi.Router) {
		r.Post("/payroll/salaries", h.handleRecordSalary)
		r.Post("/payroll/payments", h.handleRecordPayment)
	})
}

func statementRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %w", err)
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %w", err)
	}
	if to.IsZero() {
		to = time.Now()
	}
	// A bare date means the whole day on the upper bound.
	if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	from, to, err := statementRange(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}

	statement, err := h.Service.BuildEmployeeLedger(r.Context(), actor.TenantID, chi.URLParam(r, "workerID"), from, to)
	if err != nil {
		writeLedgerError(w, err, requestID)
		return
	}
	api.Success(w, statement, requestID)
}

func (h *Handler) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	workerID := chi.URLParam(r, "workerID")

	from, to, err := statementRange(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}

	pdfBytes, err := h.Service.GenerateStatementPDF(r.Context(), actor.TenantID, workerID, from, to)
	if err != nil {
		writeLedgerError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ledger-%s.pdf", workerID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

type salaryPayload struct {
	WorkerID     string          `json:"workerId"`
	PeriodFrom   string          `json:"periodFrom"`
	PeriodTo     string          `json:"periodTo"`
	NetSalary    decimal.Decimal `json:"netSalary"`
	CalculatedOn string          `json:"calculatedOn"`
}

func (h *Handler) handleRecordSalary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload salaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if payload.WorkerID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workerId is required", requestID)
		return
	}
	periodFrom, err := shared.ParseDate(payload.PeriodFrom)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid periodFrom", requestID)
		return
	}
	periodTo, err := shared.ParseDate(payload.PeriodTo)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid periodTo", requestID)
		return
	}
	calculatedOn, err := shared.ParseDate(payload.CalculatedOn)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid calculatedOn", requestID)
		return
	}

	id, err := h.Service.RecordCalculatedSalary(r.Context(), actor, ledger.CalculatedSalary{
		WorkerID:     payload.WorkerID,
		PeriodFrom:   periodFrom,
		PeriodTo:     periodTo,
		NetSalary:    payload.NetSalary,
		CalculatedOn: calculatedOn,
	})
	if err != nil {
		writeLedgerError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "salary.record", "calculated_salary", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

type paymentPayload struct {
	WorkerID  string          `json:"workerId"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    string          `json:"paidAt"`
	SalaryID  *string         `json:"salaryId"`
	Reference string          `json:"reference"`
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if payload.WorkerID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workerId is required", requestID)
		return
	}
	paidAt, err := shared.ParseDate(payload.PaidAt)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid paidAt", requestID)
		return
	}

	id, err := h.Service.RecordSalaryPayment(r.Context(), actor, ledger.SalaryPayment{
		WorkerID:  payload.WorkerID,
		Amount:    payload.Amount,
		PaidAt:    paidAt,
		SalaryID:  payload.SalaryID,
		Reference: payload.Reference,
	})
	if err != nil {
		writeLedgerError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "salary_payment.record", "salary_payment", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func writeLedgerError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, ledger.ErrWorkerNotFound),
		errors.Is(err, ledger.ErrSalaryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrInvalidPeriod),
		errors.Is(err, ledger.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	case errors.Is(err, ledger.ErrBackdateNotAllowed):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
