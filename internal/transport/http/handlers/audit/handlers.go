package audithandler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/audit"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/shared"
)

const exportLimit = 10000

type Handler struct {
	Service   *audit.Service
	Directory *directory.Service
}

func NewHandler(service *audit.Service, directoryService *directory.Service) *Handler {
	return &Handler{Service: service, Directory: directoryService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/businesses/{businessID}/audit", func(r chi.Router) {
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
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

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    r.URL.Query().Get("actorId"),
	}
	total, err := h.Service.Count(r.Context(), businessID, filter)
	if err != nil {
		slog.Warn("audit count failed", "err", err)
	}

	events, err := h.Service.List(r.Context(), businessID, filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	events, err := h.Service.List(r.Context(), businessID, audit.Filter{}, exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_id", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		row := []string{evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, evt.CreatedAt.Format(time.RFC3339)}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}
