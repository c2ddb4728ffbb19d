package schedulehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/audit"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/schedule"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
)

type Handler struct {
	Service   *schedule.Service
	Directory *directory.Service
	Audit     *audit.Service
}

func NewHandler(service *schedule.Service, directoryService *directory.Service, auditService *audit.Service) *Handler {
	return &Handler{Service: service, Directory: directoryService, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/businesses/{businessID}/schedules", func(r chi.Router) {
		r.Get("/", h.handleGetWeek)
		r.Post("/", h.handleCreate)
		r.Post("/copy-previous-week", h.handleCopyPreviousWeek)
		r.Route("/{scheduleID}", func(r chi.Router) {
			r.Post("/post", h.handlePost)
			r.Post("/unpost", h.handleUnpost)
			r.Get("/employee-hours", h.handleEmployeeHours)
			r.Get("/calendar.ics", h.handleCalendar)
			r.Post("/shifts", h.handleCreateShift)
			r.Put("/shifts/{shiftID}", h.handleUpdateShift)
			r.Delete("/shifts/{shiftID}", h.handleDeleteShift)
		})
	})
	r.Route("/businesses/{businessID}/shift-templates", func(r chi.Router) {
		r.Get("/", h.handleListTemplates)
		r.Post("/", h.handleCreateTemplate)
		r.Put("/{templateID}", h.handleUpdateTemplate)
		r.Delete("/{templateID}", h.handleDeactivateTemplate)
	})
}

func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request, businessID string) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	owns, err := h.Directory.IsOwner(r.Context(), businessID, user.UserID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	if !owns {
		api.Fail(w, http.StatusForbidden, "forbidden", "you do not own this business", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	return user, true
}

// callerIsMember reports whether the authenticated employee is on the
// business roster. Owners never take this path.
func (h *Handler) callerIsMember(r *http.Request, businessID string, user auth.UserContext) bool {
	if user.Role != auth.RoleEmployee {
		return false
	}
	employeeID, err := h.Directory.EmployeeIDForUser(r.Context(), user.UserID)
	if err != nil {
		return false
	}
	member, err := h.Directory.IsMember(r.Context(), businessID, employeeID)
	return err == nil && member
}

// handleGetWeek serves two audiences. Owners asking for ?week= get the
// schedule for that week, materialized as an empty draft if needed.
// Rostered employees see the week read-only, and only once it is posted.
// Without ?week= the owner gets the business's schedules, optionally
// filtered by ?status=.
func (h *Handler) handleGetWeek(w http.ResponseWriter, r *http.Request) {
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

	week := r.URL.Query().Get("week")
	if week == "" {
		if !owns {
			api.Fail(w, http.StatusForbidden, "forbidden", "you do not own this business", middleware.GetRequestID(r.Context()))
			return
		}
		schedules, err := h.Service.ListByStatus(r.Context(), businessID, r.URL.Query().Get("status"))
		if err != nil {
			api.FailErr(w, err, middleware.GetRequestID(r.Context()))
			return
		}
		if schedules == nil {
			schedules = []schedule.WeeklySchedule{}
		}
		api.Success(w, schedules, middleware.GetRequestID(r.Context()))
		return
	}

	if owns {
		sched, err := h.Service.GetOrCreate(r.Context(), businessID, week)
		if err != nil {
			api.FailErr(w, err, middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, sched, middleware.GetRequestID(r.Context()))
		return
	}

	if !h.callerIsMember(r, businessID, user) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you are not on this business's roster", middleware.GetRequestID(r.Context()))
		return
	}
	sched, err := h.Service.GetWeek(r.Context(), businessID, week)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if sched.Status != schedule.StatusPosted {
		api.Fail(w, http.StatusNotFound, "schedule_not_found", "no schedule for week "+week, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sched, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload struct {
		WeekStartDate string `json:"weekStartDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	sched, err := h.Service.Create(r.Context(), businessID, payload.WeekStartDate)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, sched, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCopyPreviousWeek(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload struct {
		WeekStartDate string `json:"weekStartDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.CopyPreviousWeek(r.Context(), businessID, payload.WeekStartDate)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
	user, ok := h.requireOwner(w, r, businessID)
	if !ok {
		return
	}

	sched, err := h.Service.Post(r.Context(), businessID, scheduleID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, businessID, user.UserID, audit.ActionSchedulePost, sched.ID, map[string]any{"status": sched.Status, "weekStartDate": sched.WeekStartDate})
	api.Success(w, sched, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUnpost(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
	user, ok := h.requireOwner(w, r, businessID)
	if !ok {
		return
	}

	sched, err := h.Service.Unpost(r.Context(), businessID, scheduleID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, businessID, user.UserID, audit.ActionScheduleUnpost, sched.ID, map[string]any{"status": sched.Status, "weekStartDate": sched.WeekStartDate})
	api.Success(w, sched, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeHours(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	totals, err := h.Service.EmployeeHours(r.Context(), businessID, scheduleID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"scheduleId": scheduleID, "hours": totals}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
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
	if !owns && !h.callerIsMember(r, businessID, user) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you are not on this business's roster", middleware.GetRequestID(r.Context()))
		return
	}

	content, filename, err := h.Service.CalendarICS(r.Context(), businessID, scheduleID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := w.Write([]byte(content)); err != nil {
		slog.Warn("calendar write failed", "err", err)
	}
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload schedule.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	shift, err := h.Service.CreateShift(r.Context(), businessID, scheduleID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, shift, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
	shiftID := chi.URLParam(r, "shiftID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload schedule.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	shift, err := h.Service.UpdateShift(r.Context(), businessID, scheduleID, shiftID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, shift, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	scheduleID := chi.URLParam(r, "scheduleID")
	shiftID := chi.URLParam(r, "shiftID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	if err := h.Service.DeleteShift(r.Context(), businessID, scheduleID, shiftID); err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	templates, err := h.Service.ListTemplates(r.Context(), businessID, activeOnly)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if templates == nil {
		templates = []schedule.ShiftTemplate{}
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload schedule.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	template, err := h.Service.CreateTemplate(r.Context(), businessID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, template, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	templateID := chi.URLParam(r, "templateID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload schedule.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	template, err := h.Service.UpdateTemplate(r.Context(), businessID, templateID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, template, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	templateID := chi.URLParam(r, "templateID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	if err := h.Service.DeactivateTemplate(r.Context(), businessID, templateID); err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, businessID, actorID, action, entityID string, after any) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Record(r.Context(), businessID, actorID, action, "weekly_schedule", entityID,
		middleware.GetRequestID(r.Context()), middleware.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit write failed", "action", action, "err", err)
	}
}
