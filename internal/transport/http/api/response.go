package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailErr maps a domain error onto the wire. Unknown errors are
// reported opaquely so internals never leak into responses.
func FailErr(w http.ResponseWriter, err error, requestID string) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "an internal error occurred"

	switch fault.KindOf(err) {
	case fault.KindValidation, fault.KindBusinessRule:
		status = http.StatusBadRequest
	case fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindConflict:
		status = http.StatusConflict
	case fault.KindAuthorization:
		status = http.StatusForbidden
	default:
		slog.Warn("internal error", "requestId", requestID, "err", err)
	}

	if status != http.StatusInternalServerError {
		code = fault.CodeOf(err)
		message = fault.MessageOf(err)
	}
	Fail(w, status, code, message, requestID)
}
