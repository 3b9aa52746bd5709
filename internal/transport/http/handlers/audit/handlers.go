package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fueldesk/internal/domain/audit"
	domauth "fueldesk/internal/domain/auth"
	"fueldesk/internal/transport/http/api"
	"fueldesk/internal/transport/http/middleware"
	"fueldesk/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(domauth.PermAuditRead)).
		Get("/audit/events", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	page := shared.ParsePagination(r, 50, 200)
	events, err := h.Service.List(r.Context(), actor.TenantID, audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
	}, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
		return
	}
	api.Success(w, events, requestID)
}
