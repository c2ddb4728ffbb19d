package hourshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/audit"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/hours"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service   *hours.Service
	Directory *directory.Service
	Audit     *audit.Service
}

func NewHandler(service *hours.Service, directoryService *directory.Service, auditService *audit.Service) *Handler {
	return &Handler{Service: service, Directory: directoryService, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/confirmed-hours", func(r chi.Router) {
		r.Get("/weekly", h.handleWeekly)
		r.Get("/mine", h.handleMine)
		r.Post("/", h.handleCreate)
		r.Route("/{hoursID}", func(r chi.Router) {
			r.Put("/", h.handleUpdate)
			r.Post("/submit", h.handleSubmit)
			r.Post("/approve", h.handleApprove)
			r.Post("/reject", h.handleReject)
		})
	})
	r.Get("/businesses/{businessID}/confirmed-hours", h.handleBusinessList)
}

// requireEmployee resolves the caller to their employee profile. The
// employee id, not the user id, is what hours records are keyed by.
func (h *Handler) requireEmployee(w http.ResponseWriter, r *http.Request) (auth.UserContext, string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, "", false
	}
	if user.Role != auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "employee role required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, "", false
	}
	employeeID, err := h.Directory.EmployeeIDForUser(r.Context(), user.UserID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, "", false
	}
	return user, employeeID, true
}

func (h *Handler) requireMembership(w http.ResponseWriter, r *http.Request, businessID, employeeID string) bool {
	member, err := h.Directory.IsMember(r.Context(), businessID, employeeID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return false
	}
	if !member {
		api.Fail(w, http.StatusForbidden, "forbidden", "you are not on this business's roster", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func (h *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	businessID := r.URL.Query().Get("businessId")
	week := r.URL.Query().Get("week")
	if businessID == "" || week == "" {
		api.Fail(w, http.StatusBadRequest, "missing_params", "businessId and week are required", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.requireMembership(w, r, businessID, employeeID) {
		return
	}

	record, err := h.Service.GetWeekly(r.Context(), employeeID, businessID, week)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	list, err := h.Service.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	var payload hours.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("businessId", payload.BusinessID, "business id is required")
	validator.Date("weekStartDate", payload.WeekStartDate)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if !h.requireMembership(w, r, payload.BusinessID, employeeID) {
		return
	}

	record, err := h.Service.Create(r.Context(), employeeID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	var payload hours.HoursInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Update(r.Context(), chi.URLParam(r, "hoursID"), employeeID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, employeeID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	record, err := h.Service.Submit(r.Context(), chi.URLParam(r, "hoursID"), employeeID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, record.BusinessID, user.UserID, audit.ActionHoursSubmit, record.ID,
		map[string]any{"status": record.Status, "totalHours": record.TotalHours})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleBusiness {
		api.Fail(w, http.StatusForbidden, "forbidden", "business role required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Approve(r.Context(), chi.URLParam(r, "hoursID"), user.UserID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, record.BusinessID, user.UserID, audit.ActionHoursApprove, record.ID,
		map[string]any{"status": record.Status, "totalHours": record.TotalHours})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleBusiness {
		api.Fail(w, http.StatusForbidden, "forbidden", "business role required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Reject(r.Context(), chi.URLParam(r, "hoursID"), user.UserID, payload.Reason)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, record.BusinessID, user.UserID, audit.ActionHoursReject, record.ID,
		map[string]any{"status": record.Status, "rejectionReason": record.RejectionReason})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBusinessList(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	owns, err := h.Directory.IsOwner(r.Context(), businessID, user.UserID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if !owns {
		api.Fail(w, http.StatusForbidden, "forbidden", "you do not own this business", middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Service.ListForBusiness(r.Context(), businessID, r.URL.Query().Get("status"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, businessID, actorID, action, entityID string, after any) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Record(r.Context(), businessID, actorID, action, "confirmed_hours", entityID,
		middleware.GetRequestID(r.Context()), middleware.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit write failed", "action", action, "err", err)
	}
}
