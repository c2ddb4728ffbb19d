package auth

import (
	"context"
	"testing"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", Role: RoleBusiness}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: %+v", parsed)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := NewService(nil)

	cases := []struct {
		name string
		in   RegisterInput
		code string
	}{
		{"missing email", RegisterInput{Password: "long-enough", Role: RoleEmployee}, "invalid_email"},
		{"no at sign", RegisterInput{Email: "nobody", Password: "long-enough", Role: RoleEmployee}, "invalid_email"},
		{"short password", RegisterInput{Email: "a@b.co", Password: "short", Role: RoleEmployee}, "weak_password"},
		{"unknown role", RegisterInput{Email: "a@b.co", Password: "long-enough", Role: "admin"}, "invalid_role"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.in)
		if fault.KindOf(err) != fault.KindValidation || fault.CodeOf(err) != tc.code {
			t.Fatalf("%s: expected validation %s, got %v", tc.name, tc.code, err)
		}
	}
}
