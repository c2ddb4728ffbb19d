package authhandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/app/server"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/config"
)

const testSecret = "test-secret"

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type responseEnvelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   *responseError `json:"error"`
}

func TestRegisterAndLoginFlow(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          testSecret,
		DataEncryptionKey:  "test-data-encryption-key-32-byte",
		Environment:        "test",
		SeedOwnerEmail:     "owner@test.local",
		SeedOwnerPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            false,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	nano := time.Now().UnixNano()
	ownerEmail := fmt.Sprintf("auth-owner-%d@example.com", nano)

	status, env := postAuth(t, client, ts.URL+"/api/v1/auth/register", map[string]any{
		"email":    ownerEmail,
		"password": "OwnerPass123!",
		"role":     "business",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 registration, got %d: %+v", status, env.Error)
	}
	token, _ := env.Data["token"].(string)
	if token == "" {
		t.Fatalf("expected a token, got %+v", env.Data)
	}
	user, _ := env.Data["user"].(map[string]any)
	if user["role"] != "business" {
		t.Fatalf("expected business role, got %+v", user)
	}
	userID, _ := user["id"].(string)
	if userID == "" {
		t.Fatalf("expected a user id, got %+v", user)
	}

	claims, err := auth.ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}
	if claims.UserID != userID || claims.Role != "business" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 7*time.Hour || ttl > 9*time.Hour {
		t.Fatalf("expected roughly 8h token lifetime, got %s", ttl)
	}

	// Same email cannot register twice, whatever the role.
	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/register", map[string]any{
		"email":    ownerEmail,
		"password": "OtherPass123!",
		"role":     "employee",
		"fullName": "Dup User",
	})
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "email_taken" {
		t.Fatalf("expected email_taken conflict, got %d: %+v", status, env.Error)
	}

	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/register", map[string]any{
		"email":    fmt.Sprintf("weak-%d@example.com", nano),
		"password": "short",
		"role":     "business",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "weak_password" {
		t.Fatalf("expected weak_password, got %d: %+v", status, env.Error)
	}

	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/register", map[string]any{
		"email":    fmt.Sprintf("role-%d@example.com", nano),
		"password": "GoodPass123!",
		"role":     "manager",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_role" {
		t.Fatalf("expected invalid_role, got %d: %+v", status, env.Error)
	}

	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "GoodPass123!",
		"role":     "business",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_email" {
		t.Fatalf("expected invalid_email, got %d: %+v", status, env.Error)
	}

	empEmail := fmt.Sprintf("auth-emp-%d@example.com", nano)
	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/register", map[string]any{
		"email":    empEmail,
		"password": "EmpPass123!",
		"role":     "employee",
		"fullName": "Jordan Shiftworker",
		"phone":    "+1-555-0100",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 employee registration, got %d: %+v", status, env.Error)
	}
	employee, _ := env.Data["employee"].(map[string]any)
	if employee["fullName"] != "Jordan Shiftworker" {
		t.Fatalf("expected employee profile, got %+v", env.Data)
	}
	if employee["phone"] != "+1-555-0100" {
		t.Fatalf("expected phone to round-trip, got %+v", employee)
	}
	employeeID, _ := employee["id"].(string)

	// With an encryption key configured the phone lands encrypted, not
	// in the plaintext column.
	var phonePlain *string
	var phoneEnc []byte
	err = app.DB.QueryRow(context.Background(),
		`SELECT phone, phone_enc FROM employees WHERE id = $1`, employeeID).Scan(&phonePlain, &phoneEnc)
	if err != nil {
		t.Fatalf("failed to inspect employee row: %v", err)
	}
	if phonePlain != nil {
		t.Fatalf("expected no plaintext phone, got %q", *phonePlain)
	}
	if len(phoneEnc) == 0 {
		t.Fatalf("expected encrypted phone bytes")
	}

	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/login", map[string]any{
		"email":    ownerEmail,
		"password": "WrongPass123!",
	})
	if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials for bad password, got %d: %+v", status, env.Error)
	}

	// Unknown emails produce the same answer as bad passwords.
	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/login", map[string]any{
		"email":    fmt.Sprintf("ghost-%d@example.com", nano),
		"password": "WrongPass123!",
	})
	if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials for unknown email, got %d: %+v", status, env.Error)
	}

	status, env = postAuth(t, client, ts.URL+"/api/v1/auth/login", map[string]any{
		"email":    ownerEmail,
		"password": "OwnerPass123!",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 login, got %d: %+v", status, env.Error)
	}
	if loginToken, _ := env.Data["token"].(string); loginToken == "" {
		t.Fatalf("expected login token, got %+v", env.Data)
	}

	var lastLogin *time.Time
	err = app.DB.QueryRow(context.Background(),
		`SELECT last_login FROM users WHERE id = $1`, userID).Scan(&lastLogin)
	if err != nil {
		t.Fatalf("failed to read last login: %v", err)
	}
	if lastLogin == nil {
		t.Fatalf("expected last_login to be stamped")
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/businesses", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func postAuth(t *testing.T, client *http.Client, url string, body map[string]any) (int, responseEnvelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, env
}
