package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/app/server"
)

func TestMarkPaidReplaysWithIdempotencyKey(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	nano := time.Now().UnixNano()
	ownerToken := registerOwner(t, client, ts.URL, fmt.Sprintf("idem-owner-%d@example.com", nano), "OwnerPass123!")
	_, employeeID := registerEmployee(t, client, ts.URL, fmt.Sprintf("idem-emp-%d@example.com", nano), "EmpPass123!", "Quinn Driver")
	businessID := createBusiness(t, client, ts.URL, ownerToken, "Idempotent Couriers")
	addRosterMember(t, client, ts.URL, ownerToken, businessID, employeeID)

	week := upcomingSunday(0)
	created := decodeMap(t, postJSON(t, client, ts.URL+"/api/v1/businesses/"+businessID+"/payroll/records", ownerToken, map[string]any{
		"employeeId":  employeeID,
		"periodStart": week,
		"periodEnd":   addDays(t, week, 6),
		"totalHours":  32,
		"hourlyRate":  18,
	}))
	recordID := created["id"].(string)
	if status, _ := created["status"].(string); status != "calculated" {
		t.Fatalf("expected calculated record, got %v", created["status"])
	}

	markPaidURL := ts.URL + "/api/v1/businesses/" + businessID + "/payroll/records/" + recordID + "/mark-paid"
	key := fmt.Sprintf("mark-paid-%d", nano)
	body := map[string]any{"paymentMethod": "bank_transfer"}

	status, env := requestJSON(t, client, http.MethodPost, markPaidURL, ownerToken, body, map[string]string{"Idempotency-Key": key})
	if status != http.StatusOK {
		t.Fatalf("expected 200 mark-paid, got %d: %+v", status, env.Error)
	}
	paid := decodeMap(t, env)
	if paid["status"].(string) != "paid" {
		t.Fatalf("expected paid record, got %v", paid["status"])
	}
	paidAt, _ := paid["paidAt"].(string)
	if paidAt == "" {
		t.Fatalf("expected paidAt timestamp, got %v", paid["paidAt"])
	}

	// A retry with the same key and body replays the stored response.
	status, env = requestJSON(t, client, http.MethodPost, markPaidURL, ownerToken, body, map[string]string{"Idempotency-Key": key})
	if status != http.StatusOK {
		t.Fatalf("expected 200 replay, got %d: %+v", status, env.Error)
	}
	replayed := decodeMap(t, env)
	if replayed["paidAt"].(string) != paidAt {
		t.Fatalf("expected replay to preserve paidAt %s, got %v", paidAt, replayed["paidAt"])
	}

	var auditCount int
	err = app.DB.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM audit_events WHERE action = 'payroll.record.mark_paid' AND entity_id = $1`, recordID).Scan(&auditCount)
	if err != nil {
		t.Fatalf("failed to count audit events: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("expected a single mark-paid audit event, got %d", auditCount)
	}

	status, env = requestJSON(t, client, http.MethodPost, markPaidURL, ownerToken, map[string]any{"paymentMethod": "cash"}, map[string]string{"Idempotency-Key": key})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for reused key with new body, got %d", status)
	}
	if code := envelopeErrorCode(env); code != "idempotency_conflict" {
		t.Fatalf("expected idempotency_conflict, got %+v", env.Error)
	}

	// A fresh key reaches the service, which refuses a second transition.
	status, env = requestJSON(t, client, http.MethodPost, markPaidURL, ownerToken, body, map[string]string{"Idempotency-Key": key + "-second"})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for already-paid record, got %d", status)
	}
	if code := envelopeErrorCode(env); code != "record_not_payable" {
		t.Fatalf("expected record_not_payable, got %+v", env.Error)
	}
}

func TestBulkRecordsAreIdempotentPerKey(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	nano := time.Now().UnixNano()
	ownerToken := registerOwner(t, client, ts.URL, fmt.Sprintf("bulk-owner-%d@example.com", nano), "OwnerPass123!")
	_, employeeID := registerEmployee(t, client, ts.URL, fmt.Sprintf("bulk-emp-%d@example.com", nano), "EmpPass123!", "Blake Till")
	_, unratedID := registerEmployee(t, client, ts.URL, fmt.Sprintf("bulk-unrated-%d@example.com", nano), "EmpPass123!", "Noor Newhire")
	businessID := createBusiness(t, client, ts.URL, ownerToken, "Bulk Bakery")
	addRosterMember(t, client, ts.URL, ownerToken, businessID, employeeID)
	addRosterMember(t, client, ts.URL, ownerToken, businessID, unratedID)

	week := upcomingSunday(0)
	setHourlyRate(t, client, ts.URL, ownerToken, businessID, employeeID, 18, week)

	scheduleID, _ := getWeekSchedule(t, client, ts.URL, ownerToken, businessID, week)
	createShift(t, client, ts.URL, ownerToken, businessID, scheduleID, employeeID, 1, "09:00", "17:00")
	postSchedule(t, client, ts.URL, ownerToken, businessID, scheduleID)

	bulkURL := ts.URL + "/api/v1/businesses/" + businessID + "/payroll/records/bulk"
	bulkBody := map[string]any{
		"employeeIds": []string{employeeID},
		"startDate":   week,
		"endDate":     addDays(t, week, 6),
	}

	status, env := requestJSON(t, client, http.MethodPost, bulkURL, ownerToken, bulkBody, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key, got %d", status)
	}
	if code := envelopeErrorCode(env); code != "validation_error" {
		t.Fatalf("expected validation_error without key, got %+v", env.Error)
	}

	key := fmt.Sprintf("bulk-%d", nano)
	status, env = requestJSON(t, client, http.MethodPost, bulkURL, ownerToken, bulkBody, map[string]string{"Idempotency-Key": key})
	if status != http.StatusOK {
		t.Fatalf("expected 200 bulk creation, got %d: %+v", status, env.Error)
	}
	result := decodeMap(t, env)
	if result["succeeded"].(float64) != 1 || result["failed"].(float64) != 0 {
		t.Fatalf("expected one record created, got %+v", result)
	}

	countRecords := func() int {
		t.Helper()
		var n int
		if err := app.DB.QueryRow(context.Background(),
			`SELECT COUNT(*) FROM payment_records WHERE business_id = $1`, businessID).Scan(&n); err != nil {
			t.Fatalf("failed to count payment records: %v", err)
		}
		return n
	}
	if n := countRecords(); n != 1 {
		t.Fatalf("expected 1 payment record, got %d", n)
	}

	status, env = requestJSON(t, client, http.MethodPost, bulkURL, ownerToken, bulkBody, map[string]string{"Idempotency-Key": key})
	if status != http.StatusOK {
		t.Fatalf("expected 200 bulk replay, got %d: %+v", status, env.Error)
	}
	replay := decodeMap(t, env)
	if replay["succeeded"].(float64) != 1 {
		t.Fatalf("expected replayed result, got %+v", replay)
	}
	if n := countRecords(); n != 1 {
		t.Fatalf("expected replay to create nothing, got %d records", n)
	}

	conflictBody := map[string]any{
		"employeeIds": []string{employeeID},
		"startDate":   week,
		"endDate":     addDays(t, week, 13),
	}
	status, env = requestJSON(t, client, http.MethodPost, bulkURL, ownerToken, conflictBody, map[string]string{"Idempotency-Key": key})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for reused bulk key, got %d", status)
	}
	if code := envelopeErrorCode(env); code != "idempotency_conflict" {
		t.Fatalf("expected idempotency_conflict, got %+v", env.Error)
	}

	// Per-employee failures land in items without failing the batch.
	status, env = requestJSON(t, client, http.MethodPost, bulkURL, ownerToken, map[string]any{
		"employeeIds": []string{unratedID},
		"startDate":   week,
		"endDate":     addDays(t, week, 6),
	}, map[string]string{"Idempotency-Key": key + "-unrated"})
	if status != http.StatusOK {
		t.Fatalf("expected 200 bulk with per-item failure, got %d: %+v", status, env.Error)
	}
	partial := decodeMap(t, env)
	if partial["succeeded"].(float64) != 0 || partial["failed"].(float64) != 1 {
		t.Fatalf("expected one per-item failure, got %+v", partial)
	}
	items := partial["items"].([]any)
	item := items[0].(map[string]any)
	if msg, _ := item["error"].(string); !strings.Contains(msg, "no hourly rate on file") {
		t.Fatalf("expected rate failure on item, got %+v", item)
	}
	if n := countRecords(); n != 1 {
		t.Fatalf("expected unrated employee to create nothing, got %d records", n)
	}
}
