package stationhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fueldesk/internal/domain/audit"
	domauth "fueldesk/internal/domain/auth"
	"fueldesk/internal/domain/station"
	"fueldesk/internal/transport/http/api"
	"fueldesk/internal/transport/http/middleware"
	"fueldesk/internal/transport/http/shared"
)

type Handler struct {
	Service *station.Service
	Audit   *audit.Service
}

func NewHandler(service *station.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/station", func(r chi.Router) {
		r.With(middleware.RequirePermission(domauth.PermStationOperate)).Group(func(r chi.Router) {
			r.Post("/shifts", h.handleCreateShift)
			r.Post("/assignments", h.handleOpenAssignment)
			r.Post("/assignments/{assignmentID}/close", h.handleCloseAssignment)
			r.Post("/shifts/{shiftID}/tests", h.handleRecordTest)
			r.Post("/shifts/{shiftID}/credit-bills", h.handleAddCreditBill)
			r.Post("/shifts/{shiftID}/payments", h.handleAddPayment)
			r.Post("/shifts/{shiftID}/expenses", h.handleAddExpense)
			r.Get("/shifts/{shiftID}", h.handleGetShift)
			r.Get("/shifts/{shiftID}/totals", h.handleShiftTotals)
			r.Get("/shifts/{shiftID}/assignments", h.handleListAssignments)
		})
		r.With(middleware.RequirePermission(domauth.PermStationClose)).
			Post("/shifts/{shiftID}/close", h.handleCloseShift)
	})
}

type createShiftPayload struct {
	WorkerID     string          `json:"workerId"`
	WorkPeriodID string          `json:"workPeriodId"`
	Date         string          `json:"date"`
	StartTime    string          `json:"startTime"`
	OpeningCash  decimal.Decimal `json:"openingCash"`
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload createShiftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if payload.WorkerID == "" || payload.WorkPeriodID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workerId and workPeriodId are required", requestID)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date", requestID)
		return
	}
	startTime, err := shared.ParseDate(payload.StartTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid startTime", requestID)
		return
	}

	id, err := h.Service.CreateShift(r.Context(), actor, station.CreateShiftInput{
		WorkerID:     payload.WorkerID,
		WorkPeriodID: payload.WorkPeriodID,
		Date:         date,
		StartTime:    startTime,
		OpeningCash:  payload.OpeningCash,
	})
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "shift.create", "shift", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleCloseShift(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload struct {
		EndTime string `json:"endTime"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	endTime, err := shared.ParseDate(payload.EndTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid endTime", requestID)
		return
	}

	if err := h.Service.CloseShift(r.Context(), actor, shiftID, endTime); err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "shift.close", "shift", shiftID, requestID, nil, payload)
	api.Success(w, map[string]string{"id": shiftID, "status": "closed"}, requestID)
}

func (h *Handler) handleGetShift(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	shift, err := h.Service.GetShift(r.Context(), actor.TenantID, chi.URLParam(r, "shiftID"))
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}
	api.Success(w, shift, requestID)
}

func (h *Handler) handleShiftTotals(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	totals, err := h.Service.Totals(r.Context(), actor.TenantID, chi.URLParam(r, "shiftID"))
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}
	api.Success(w, totals, requestID)
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	assignments, err := h.Service.ListAssignments(r.Context(), actor.TenantID, chi.URLParam(r, "shiftID"))
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}
	api.Success(w, assignments, requestID)
}

type openAssignmentPayload struct {
	NozzleID       string          `json:"nozzleId"`
	WorkerID       string          `json:"workerId"`
	ShiftID        string          `json:"shiftId"`
	StartTime      string          `json:"startTime"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

func (h *Handler) handleOpenAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload openAssignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if payload.NozzleID == "" || payload.WorkerID == "" || payload.ShiftID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "nozzleId, workerId and shiftId are required", requestID)
		return
	}
	startTime, err := shared.ParseDate(payload.StartTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid startTime", requestID)
		return
	}

	id, err := h.Service.OpenAssignment(r.Context(), actor, station.OpenAssignmentInput{
		NozzleID:       payload.NozzleID,
		WorkerID:       payload.WorkerID,
		ShiftID:        payload.ShiftID,
		StartTime:      startTime,
		OpeningBalance: payload.OpeningBalance,
	})
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "assignment.open", "nozzle_assignment", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

type closeAssignmentPayload struct {
	EndTime        string          `json:"endTime"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

func (h *Handler) handleCloseAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	assignmentID := chi.URLParam(r, "assignmentID")

	var payload closeAssignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	endTime, err := shared.ParseDate(payload.EndTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid endTime", requestID)
		return
	}

	summary, err := h.Service.CloseAssignment(r.Context(), actor, assignmentID, endTime, payload.ClosingBalance)
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "assignment.close", "nozzle_assignment", assignmentID, requestID, nil, summary)
	api.Success(w, summary, requestID)
}

type recordTestPayload struct {
	NozzleID string          `json:"nozzleId"`
	Quantity decimal.Decimal `json:"quantity"`
	TestedAt string          `json:"testedAt"`
}

func (h *Handler) handleRecordTest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload recordTestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if payload.NozzleID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "nozzleId is required", requestID)
		return
	}
	testedAt, err := shared.ParseDate(payload.TestedAt)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid testedAt", requestID)
		return
	}

	id, err := h.Service.RecordNozzleTest(r.Context(), actor, shiftID, payload.NozzleID, payload.Quantity, testedAt)
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "nozzle_test.record", "nozzle_test", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

type creditBillPayload struct {
	CustomerID string          `json:"customerId"`
	BillNumber string          `json:"billNumber"`
	NetAmount  decimal.Decimal `json:"netAmount"`
	BilledAt   string          `json:"billedAt"`
}

func (h *Handler) handleAddCreditBill(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload creditBillPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	billedAt, err := shared.ParseDate(payload.BilledAt)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid billedAt", requestID)
		return
	}

	id, err := h.Service.AddCreditBill(r.Context(), actor, station.CreditBill{
		ShiftID:    shiftID,
		CustomerID: payload.CustomerID,
		BillNumber: payload.BillNumber,
		NetAmount:  payload.NetAmount,
		BilledAt:   billedAt,
	})
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "credit_bill.add", "credit_bill", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

type shiftPaymentPayload struct {
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference"`
	ReceivedAt string          `json:"receivedAt"`
}

func (h *Handler) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload shiftPaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	receivedAt, err := shared.ParseDate(payload.ReceivedAt)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid receivedAt", requestID)
		return
	}

	id, err := h.Service.AddPayment(r.Context(), actor, station.ShiftPayment{
		ShiftID:    shiftID,
		Amount:     payload.Amount,
		Reference:  payload.Reference,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "shift_payment.add", "shift_payment", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

type shiftExpensePayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	SpentAt     string          `json:"spentAt"`
}

func (h *Handler) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload shiftExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	spentAt, err := shared.ParseDate(payload.SpentAt)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid spentAt", requestID)
		return
	}

	id, err := h.Service.AddExpense(r.Context(), actor, station.ShiftExpense{
		ShiftID:     shiftID,
		Amount:      payload.Amount,
		Description: payload.Description,
		SpentAt:     spentAt,
	})
	if err != nil {
		writeStationError(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), actor.TenantID, actor.UserID, "shift_expense.add", "shift_expense", id, requestID, nil, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func writeStationError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, station.ErrAssignmentNotFound),
		errors.Is(err, station.ErrShiftNotFound),
		errors.Is(err, station.ErrPriceNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, station.ErrNegativeOpening),
		errors.Is(err, station.ErrClosingBelowOpening),
		errors.Is(err, station.ErrNegativeAmount):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	case errors.Is(err, station.ErrNozzleInUse),
		errors.Is(err, station.ErrAssignmentClosed),
		errors.Is(err, station.ErrShiftHasOpenNozzles),
		errors.Is(err, station.ErrShiftAlreadyClosed),
		errors.Is(err, station.ErrShiftReconciled):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	case errors.Is(err, station.ErrBackdateNotAllowed):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
