package authhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
)

const tokenTTL = 8 * time.Hour

type Handler struct {
	Auth      *auth.Service
	Directory *directory.Service
	Secret    string
}

func NewHandler(authService *auth.Service, directoryService *directory.Service, secret string) *Handler {
	return &Handler{Auth: authService, Directory: directoryService, Secret: secret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Auth.Register(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	response := map[string]any{"user": user}
	if user.Role == auth.RoleEmployee {
		employee, err := h.Directory.CreateEmployee(r.Context(), user.ID, payload.FullName, payload.Phone)
		if err != nil {
			api.FailErr(w, err, middleware.GetRequestID(r.Context()))
			return
		}
		response["employee"] = employee
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Role: user.Role}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	response["token"] = token

	api.Created(w, response, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		// Bad credentials are a 401 here, not the 403 the generic
		// mapping would produce for authorization faults.
		if fault.KindOf(err) == fault.KindAuthorization {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Role: user.Role}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{"token": token, "user": user}, middleware.GetRequestID(r.Context()))
}
