package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/app/server"
)

func TestHighRiskEndpointsReturnValidationErrors(t *testing.T) {
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
	ownerToken := registerOwner(t, client, ts.URL, fmt.Sprintf("harden-owner-%d@example.com", nano), "OwnerPass123!")
	empToken, employeeID := registerEmployee(t, client, ts.URL, fmt.Sprintf("harden-emp-%d@example.com", nano), "EmpPass123!", "Harden Tester")
	businessID := createBusiness(t, client, ts.URL, ownerToken, "Hardened Foods")
	addRosterMember(t, client, ts.URL, ownerToken, businessID, employeeID)

	recordsURL := ts.URL + "/api/v1/businesses/" + businessID + "/payroll/records"

	empty := postJSONStatus(t, client, recordsURL, ownerToken, map[string]any{}, http.StatusBadRequest)
	assertValidationErrorField(t, empty, "employeeId")
	assertValidationErrorField(t, empty, "periodStart")
	assertValidationErrorField(t, empty, "periodEnd")

	week := upcomingSunday(0)
	reversed := postJSONStatus(t, client, recordsURL, ownerToken, map[string]any{
		"employeeId":  employeeID,
		"periodStart": addDays(t, week, 6),
		"periodEnd":   week,
		"totalHours":  8,
		"hourlyRate":  15,
	}, http.StatusBadRequest)
	assertValidationErrorField(t, reversed, "periodStart")
	assertValidationErrorField(t, reversed, "periodEnd")

	bulk := postJSONStatus(t, client, recordsURL+"/bulk", ownerToken, map[string]any{}, http.StatusBadRequest)
	assertValidationErrorField(t, bulk, "Idempotency-Key")
	assertValidationErrorField(t, bulk, "employeeIds")
	assertValidationErrorField(t, bulk, "startDate")
	assertValidationErrorField(t, bulk, "endDate")

	hoursEmpty := postJSONStatus(t, client, ts.URL+"/api/v1/confirmed-hours", empToken, map[string]any{}, http.StatusBadRequest)
	assertValidationErrorField(t, hoursEmpty, "businessId")
	assertValidationErrorField(t, hoursEmpty, "weekStartDate")
}

// assertValidationErrorField checks that the envelope carries a
// validation_error whose details list an issue for the given field.
func assertValidationErrorField(t *testing.T, env envelope, field string) {
	t.Helper()
	errMap, ok := env.Error.(map[string]any)
	if !ok {
		t.Fatalf("expected error payload, got %+v", env.Error)
	}
	if code, _ := errMap["code"].(string); code != "validation_error" {
		t.Fatalf("expected validation_error, got %v", errMap["code"])
	}
	details, ok := errMap["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected validation details, got %+v", errMap["details"])
	}
	fields, ok := details["fields"].([]any)
	if !ok {
		t.Fatalf("expected fields list, got %+v", details["fields"])
	}
	for _, raw := range fields {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if entry["field"] == field {
			return
		}
	}
	t.Fatalf("expected a validation issue for field %q, got %+v", field, fields)
}
