package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/app/server"
)

func TestPayrollReportAndExports(t *testing.T) {
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
	ownerToken := registerOwner(t, client, ts.URL, fmt.Sprintf("report-owner-%d@example.com", nano), "OwnerPass123!")
	empToken, employeeID := registerEmployee(t, client, ts.URL, fmt.Sprintf("report-emp-%d@example.com", nano), "EmpPass123!", "Avery Park")
	businessID := createBusiness(t, client, ts.URL, ownerToken, "Export Bistro")
	addRosterMember(t, client, ts.URL, ownerToken, businessID, employeeID)

	week := upcomingSunday(0)
	setHourlyRate(t, client, ts.URL, ownerToken, businessID, employeeID, 20, week)

	scheduleID, _ := getWeekSchedule(t, client, ts.URL, ownerToken, businessID, week)
	createShift(t, client, ts.URL, ownerToken, businessID, scheduleID, employeeID, 1, "09:00", "17:00")
	postSchedule(t, client, ts.URL, ownerToken, businessID, scheduleID)

	prefill := getWeeklyHours(t, client, ts.URL, empToken, businessID, week)
	hoursID := prefill["id"].(string)
	if total := prefill["totalHours"].(float64); total != 8 {
		t.Fatalf("expected 8 prefilled hours, got %v", total)
	}
	if status := transitionHours(t, client, ts.URL, empToken, hoursID, "submit", nil); status != "submitted" {
		t.Fatalf("expected submitted hours, got %s", status)
	}
	if status := transitionHours(t, client, ts.URL, ownerToken, hoursID, "approve", nil); status != "approved" {
		t.Fatalf("expected approved hours, got %s", status)
	}

	payrollBase := ts.URL + "/api/v1/businesses/" + businessID + "/payroll"
	weekEnd := addDays(t, week, 6)
	record := decodeMap(t, postJSON(t, client, payrollBase+"/records", ownerToken, map[string]any{
		"employeeId":  employeeID,
		"periodStart": week,
		"periodEnd":   weekEnd,
		"totalHours":  8,
		"hourlyRate":  20,
	}))
	recordID := record["id"].(string)
	if net := record["netPay"].(float64); net != 160 {
		t.Fatalf("expected 160 net pay, got %v", net)
	}
	paid := decodeMap(t, postJSON(t, client, payrollBase+"/records/"+recordID+"/mark-paid", ownerToken, map[string]any{
		"paymentMethod": "bank_transfer",
	}))
	if paid["status"].(string) != "paid" {
		t.Fatalf("expected paid record, got %v", paid["status"])
	}

	// An arbitrary range aggregates paid records and adds a timeline.
	report := decodeMap(t, getJSON(t, client, payrollBase+"/report?start="+week+"&end="+weekEnd, ownerToken))
	if report["totalPaid"].(float64) != 160 || report["totalHours"].(float64) != 8 {
		t.Fatalf("expected 160 paid over 8 hours, got %+v", report)
	}
	employees := report["employees"].([]any)
	if len(employees) != 1 {
		t.Fatalf("expected one employee row, got %d", len(employees))
	}
	empRow := employees[0].(map[string]any)
	if empRow["employeeId"].(string) != employeeID || empRow["employeeName"].(string) != "Avery Park" {
		t.Fatalf("unexpected employee row: %+v", empRow)
	}
	timeline := report["timeline"].([]any)
	if len(timeline) != 1 {
		t.Fatalf("expected one timeline bucket, got %d", len(timeline))
	}
	bucket := timeline[0].(map[string]any)
	if bucket["count"].(float64) != 1 || bucket["total"].(float64) != 160 {
		t.Fatalf("unexpected timeline bucket: %+v", bucket)
	}

	// An exact calendar month switches to day-attributed confirmed hours.
	monday, err := time.Parse("2006-01-02", addDays(t, week, 1))
	if err != nil {
		t.Fatalf("failed to parse monday: %v", err)
	}
	monthStart := time.Date(monday.Year(), monday.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	monthly := decodeMap(t, getJSON(t, client,
		payrollBase+"/report?start="+monthStart.Format("2006-01-02")+"&end="+monthEnd.Format("2006-01-02"), ownerToken))
	if monthly["totalHours"].(float64) != 8 || monthly["totalPaid"].(float64) != 160 {
		t.Fatalf("expected monthly report of 8 hours and 160 paid, got %+v", monthly)
	}
	monthlyEmployees := monthly["employees"].([]any)
	if len(monthlyEmployees) != 1 {
		t.Fatalf("expected one monthly employee row, got %d", len(monthlyEmployees))
	}
	monthlyRow := monthlyEmployees[0].(map[string]any)
	if monthlyRow["hours"].(float64) != 8 || monthlyRow["paid"].(float64) != 160 {
		t.Fatalf("unexpected monthly employee row: %+v", monthlyRow)
	}

	var months []map[string]any
	breakdownEnv := getJSON(t, client,
		payrollBase+"/monthly-breakdown?start="+monthStart.Format("2006-01-02")+"&end="+monthEnd.Format("2006-01-02"), ownerToken)
	if err := jsonUnmarshalData(breakdownEnv, &months); err != nil {
		t.Fatalf("failed to decode breakdown: %v", err)
	}
	if len(months) != 1 {
		t.Fatalf("expected one month bucket, got %d", len(months))
	}
	if int(months[0]["year"].(float64)) != monday.Year() || int(months[0]["month"].(float64)) != int(monday.Month()) {
		t.Fatalf("unexpected month bucket: %+v", months[0])
	}
	if months[0]["totalHours"].(float64) != 8 {
		t.Fatalf("expected 8 attributed hours, got %+v", months[0])
	}

	status, header, body := getRaw(t, client, payrollBase+"/export.csv?start="+week+"&end="+weekEnd, ownerToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200 csv export, got %d", status)
	}
	if ct := header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected csv content type, got %s", ct)
	}
	csvBody := string(body)
	if !strings.Contains(csvBody, "employee_id,employee_name,total_hours,hourly_rate,gross_pay,advances,bonuses,deductions,net_pay,status,period_start,period_end") {
		t.Fatalf("missing csv header: %s", csvBody)
	}
	if !strings.Contains(csvBody, employeeID) || !strings.Contains(csvBody, "160.00") || !strings.Contains(csvBody, ",paid,") {
		t.Fatalf("missing record row in csv: %s", csvBody)
	}

	status, header, body = getRaw(t, client, payrollBase+"/export.xlsx?start="+week+"&end="+weekEnd, ownerToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200 xlsx export, got %d", status)
	}
	if ct := header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("expected xlsx content type, got %s", ct)
	}
	if !bytes.HasPrefix(body, []byte("PK")) {
		t.Fatalf("expected zip container, got %q", body[:min(4, len(body))])
	}

	status, header, body = getRaw(t, client, payrollBase+"/records/"+recordID+"/statement.pdf", ownerToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200 pdf statement, got %d", status)
	}
	if ct := header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected pdf content type, got %s", ct)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("expected pdf document, got %q", body[:min(4, len(body))])
	}

	auditBase := ts.URL + "/api/v1/businesses/" + businessID + "/audit"
	status, header, body = getRaw(t, client, auditBase+"/events", ownerToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200 audit list, got %d", status)
	}
	if total := header.Get("X-Total-Count"); total != "5" {
		t.Fatalf("expected 5 audit events, got %s", total)
	}
	var auditEnv envelope
	if err := json.Unmarshal(body, &auditEnv); err != nil {
		t.Fatalf("failed to decode audit envelope: %v", err)
	}
	var events []map[string]any
	if err := jsonUnmarshalData(auditEnv, &events); err != nil {
		t.Fatalf("failed to decode audit events: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 audit events, got %d", len(events))
	}

	var filtered []map[string]any
	filteredEnv := getJSON(t, client, auditBase+"/events?action=payroll.record.mark_paid", ownerToken)
	if err := jsonUnmarshalData(filteredEnv, &filtered); err != nil {
		t.Fatalf("failed to decode filtered events: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected one mark-paid event, got %d", len(filtered))
	}
	if filtered[0]["entityId"].(string) != recordID {
		t.Fatalf("expected event for record %s, got %+v", recordID, filtered[0])
	}

	status, header, body = getRaw(t, client, auditBase+"/events/export", ownerToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200 audit export, got %d", status)
	}
	if ct := header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected csv audit export, got %s", ct)
	}
	auditCSV := string(body)
	if !strings.Contains(auditCSV, "id,actor_id,action,entity_type,entity_id,request_id,ip,created_at") {
		t.Fatalf("missing audit csv header: %s", auditCSV)
	}
	if !strings.Contains(auditCSV, "payroll.record.mark_paid") {
		t.Fatalf("missing mark-paid event in audit csv: %s", auditCSV)
	}
}

func getRaw(t *testing.T, client *http.Client, url, token string) (int, http.Header, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp.StatusCode, resp.Header, body
}

func deleteJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	status, env := requestJSON(t, client, http.MethodDelete, url, token, nil, nil)
	if status >= 400 {
		t.Fatalf("unexpected status %d: %+v", status, env.Error)
	}
	return env
}

func jsonUnmarshalData(env envelope, target any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("envelope carries no data")
	}
	return json.Unmarshal(env.Data, target)
}
