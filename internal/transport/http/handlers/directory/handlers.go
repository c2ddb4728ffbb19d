package directoryhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/businesses", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleBusiness)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleBusiness)).Post("/", h.handleCreate)
		r.Get("/{businessID}", h.handleGet)
		r.Get("/{businessID}/employees", h.handleListEmployees)
		r.Post("/{businessID}/employees", h.handleAddEmployee)
	})
}

func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request, businessID string) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	owns, err := h.Service.IsOwner(r.Context(), businessID, user.UserID)
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

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	businesses, err := h.Service.ListBusinessesForOwner(r.Context(), user.UserID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, businesses, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload directory.BusinessInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	business, err := h.Service.CreateBusiness(r.Context(), user.UserID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, business, middleware.GetRequestID(r.Context()))
}

// handleGet serves owners and rostered employees; anyone else gets a 404
// rather than confirmation that the business exists.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	businessID := chi.URLParam(r, "businessID")
	business, err := h.Service.GetBusiness(r.Context(), businessID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	allowed := business.OwnerID == user.UserID
	if !allowed && user.Role == auth.RoleEmployee {
		employeeID, err := h.Service.EmployeeIDForUser(r.Context(), user.UserID)
		if err == nil {
			allowed, err = h.Service.IsMember(r.Context(), businessID, employeeID)
			if err != nil {
				api.FailErr(w, err, middleware.GetRequestID(r.Context()))
				return
			}
		}
	}
	if !allowed {
		api.Fail(w, http.StatusNotFound, "business_not_found", "business not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, business, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	members, err := h.Service.ListMembers(r.Context(), businessID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, members, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if _, ok := h.requireOwner(w, r, businessID); !ok {
		return
	}

	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "employee_required", "an employee id is required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.AddMember(r.Context(), businessID, payload.EmployeeID); err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"status": "added"}, middleware.GetRequestID(r.Context()))
}
