package payrollhandler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/audit"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/directory"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/payroll"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/api"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/middleware"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service   *payroll.Service
	Directory *directory.Service
	Audit     *audit.Service
	DB        *pgxpool.Pool
}

func NewHandler(service *payroll.Service, directoryService *directory.Service, auditService *audit.Service, db *pgxpool.Pool) *Handler {
	return &Handler{Service: service, Directory: directoryService, Audit: auditService, DB: db}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/businesses/{businessID}/payroll", func(r chi.Router) {
		r.Use(h.ownerOnly)
		r.Get("/hours", h.handleHours)
		r.Get("/hours/detailed", h.handleDetailedHours)
		r.Get("/calculate", h.handleCalculate)
		r.Post("/calculate-bulk", h.handleCalculateBulk)
		r.Get("/rates", h.handleListRates)
		r.Post("/rates", h.handleSetRate)
		r.Get("/records", h.handleListRecords)
		r.Post("/records", h.handleCreateRecord)
		r.Post("/records/bulk", h.handleBulkRecords)
		r.Put("/records/{recordID}", h.handleUpdateRecord)
		r.Delete("/records/{recordID}", h.handleDeleteRecord)
		r.Post("/records/{recordID}/mark-paid", h.handleMarkPaid)
		r.Get("/records/{recordID}/statement.pdf", h.handleStatementPDF)
		r.Get("/report", h.handleReport)
		r.Get("/monthly-breakdown", h.handleMonthlyBreakdown)
		r.Get("/export.csv", h.handleExportCSV)
		r.Get("/export.xlsx", h.handleExportXLSX)
	})
}

// ownerOnly guards the whole payroll surface: every route in the group
// is scoped to a business the caller owns.
func (h *Handler) ownerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}
		owns, err := h.Directory.IsOwner(r.Context(), chi.URLParam(r, "businessID"), user.UserID)
		if err != nil {
			api.FailErr(w, err, middleware.GetRequestID(r.Context()))
			return
		}
		if !owns {
			api.Fail(w, http.StatusForbidden, "forbidden", "you do not own this business", middleware.GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHours(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	rows, err := h.Service.EmployeeHours(r.Context(), businessID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDetailedHours(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	rows, err := h.Service.DetailedEmployeeHours(r.Context(), businessID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "employee_required", "an employeeId is required", middleware.GetRequestID(r.Context()))
		return
	}

	calc, err := h.Service.CalculatePay(r.Context(), businessID, employeeID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, calc, middleware.GetRequestID(r.Context()))
}

type bulkRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
}

func (h *Handler) handleCalculateBulk(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	var payload bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.BulkCalculate(r.Context(), businessID, payload.EmployeeIDs, payload.StartDate, payload.EndDate)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRates(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	rates, err := h.Service.ListRates(r.Context(), businessID, r.URL.Query().Get("employeeId"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetRate(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	var payload payroll.RateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rate, err := h.Service.SetRate(r.Context(), businessID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, rate, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	query := r.URL.Query()
	records, err := h.Service.ListRecords(r.Context(), businessID, query.Get("start"), query.Get("end"), query.Get("status"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload payroll.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("employeeId", payload.EmployeeID, "employee id is required")
	start, _ := validator.Date("periodStart", payload.PeriodStart)
	end, _ := validator.Date("periodEnd", payload.PeriodEnd)
	validator.DateOrder("periodStart", start, "periodEnd", end)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.CreateRecord(r.Context(), businessID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, businessID, user.UserID, audit.ActionRecordCreate, record.ID,
		map[string]any{"employeeId": record.EmployeeID, "netPay": record.NetPay, "status": record.Status})
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	recordID := chi.URLParam(r, "recordID")

	var payload payroll.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.UpdateRecord(r.Context(), businessID, recordID, payload)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	recordID := chi.URLParam(r, "recordID")

	if err := h.Service.DeleteRecord(r.Context(), businessID, recordID); err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

// handleMarkPaid is idempotent when the client supplies an
// Idempotency-Key header: a retry with the same key and body replays the
// stored response instead of re-running the transition.
func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	recordID := chi.URLParam(r, "recordID")
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	endpoint := "payroll.records.mark-paid:" + recordID
	hash := middleware.RequestHash(raw)
	if replayed := h.replay(w, r, user.UserID, endpoint, key, hash); replayed {
		return
	}

	record, err := h.Service.MarkPaid(r.Context(), businessID, recordID, payload.PaymentMethod)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.saveReplay(r, user.UserID, endpoint, key, hash, record)
	h.record(r, businessID, user.UserID, audit.ActionRecordPaid, record.ID,
		map[string]any{"status": record.Status, "paymentMethod": record.PaymentMethod})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBulkRecords(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload bulkRequest
	if err := json.Unmarshal(raw, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	// The key is mandatory on bulk creation, unlike single-record mark-paid.
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	validator := shared.NewValidator()
	if key == "" {
		validator.Add("Idempotency-Key", "header is required for bulk record creation")
	}
	if len(payload.EmployeeIDs) == 0 {
		validator.Add("employeeIds", "at least one employee id is required")
	}
	start, _ := validator.Date("startDate", payload.StartDate)
	end, _ := validator.Date("endDate", payload.EndDate)
	validator.DateOrder("startDate", start, "endDate", end)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	endpoint := "payroll.records.bulk:" + businessID
	hash := middleware.RequestHash(raw)
	if replayed := h.replay(w, r, user.UserID, endpoint, key, hash); replayed {
		return
	}

	result, err := h.Service.BulkCreateRecords(r.Context(), businessID, payload.EmployeeIDs, payload.StartDate, payload.EndDate)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.saveReplay(r, user.UserID, endpoint, key, hash, result)
	h.record(r, businessID, user.UserID, audit.ActionRecordCreate, "",
		map[string]any{"bulk": true, "succeeded": result.Succeeded, "failed": result.Failed})
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	report, err := h.Service.PayrollReport(r.Context(), businessID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	months, err := h.Service.MonthlyBreakdown(r.Context(), businessID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, months, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	records, err := h.Service.ListRecords(r.Context(), businessID, r.URL.Query().Get("start"), r.URL.Query().Get("end"), r.URL.Query().Get("status"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-records.csv")
	writer := csv.NewWriter(w)
	header := []string{"employee_id", "employee_name", "total_hours", "hourly_rate", "gross_pay", "advances", "bonuses", "deductions", "net_pay", "status", "period_start", "period_end"}
	if err := writer.Write(header); err != nil {
		log.Printf("payroll export header write failed: %v", err)
	}
	for _, rec := range records {
		row := []string{
			rec.EmployeeID,
			rec.EmployeeName,
			fmt.Sprintf("%.2f", rec.TotalHours),
			fmt.Sprintf("%.2f", rec.HourlyRate),
			fmt.Sprintf("%.2f", rec.GrossPay),
			fmt.Sprintf("%.2f", rec.Advances),
			fmt.Sprintf("%.2f", rec.Bonuses),
			fmt.Sprintf("%.2f", rec.Deductions),
			fmt.Sprintf("%.2f", rec.NetPay),
			rec.Status,
			rec.PeriodStart,
			rec.PeriodEnd,
		}
		if err := writer.Write(row); err != nil {
			log.Printf("payroll export row write failed: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("payroll export flush failed: %v", err)
	}
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	buf, filename, err := h.Service.ReportXLSX(r.Context(), businessID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("payroll xlsx write failed: %v", err)
	}
}

func (h *Handler) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	recordID := chi.URLParam(r, "recordID")
	content, filename, err := h.Service.StatementPDF(r.Context(), businessID, recordID)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := w.Write(content); err != nil {
		log.Printf("payroll statement write failed: %v", err)
	}
}

// replay serves a stored idempotent response. It reports true when the
// request was fully handled, whether by replay or by conflict.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, userID, endpoint, key, hash string) bool {
	if key == "" {
		return false
	}
	stored, found, err := middleware.CheckIdempotency(r.Context(), h.DB, userID, endpoint, key, hash)
	if errors.Is(err, middleware.ErrIdempotencyConflict) {
		api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was already used with a different request", middleware.GetRequestID(r.Context()))
		return true
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "idempotency_failed", "failed to check idempotency key", middleware.GetRequestID(r.Context()))
		return true
	}
	if found {
		api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
		return true
	}
	return false
}

func (h *Handler) saveReplay(r *http.Request, userID, endpoint, key, hash string, response any) {
	if key == "" {
		return
	}
	body, err := json.Marshal(response)
	if err != nil {
		log.Printf("idempotency marshal failed: %v", err)
		return
	}
	if err := middleware.SaveIdempotency(r.Context(), h.DB, userID, endpoint, key, hash, body); err != nil {
		log.Printf("idempotency save failed: %v", err)
	}
}

func (h *Handler) record(r *http.Request, businessID, actorID, action, entityID string, after any) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Record(r.Context(), businessID, actorID, action, "payment_record", entityID,
		middleware.GetRequestID(r.Context()), middleware.ClientIP(r), nil, after)
	if err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}
