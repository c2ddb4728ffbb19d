// Package auth supplies the caller identity the rest of the service
// trusts: credential storage, bcrypt verification, and HS256 tokens
// carrying the user id and role.
package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

const minPasswordLength = 8

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fault.Validation("invalid_email", "a valid email address is required")
	}
	if len(in.Password) < minPasswordLength {
		return User{}, fault.Validation("weak_password", "password must be at least 8 characters")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !ValidRole(role) {
		return User{}, fault.Validation("invalid_role", "role must be business or employee")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, fault.Internal(err, "failed to hash password")
	}
	id, err := s.Store.CreateUser(ctx, email, hash, role)
	if err != nil {
		return User{}, err
	}
	return s.Store.GetUser(ctx, id)
}

// Login verifies credentials. Callers turn a nil error into a signed
// token; the not-found and bad-password cases collapse into one
// answer so the endpoint does not reveal which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	user, err := s.Store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return User{}, fault.Authorization("invalid_credentials", "invalid credentials")
		}
		return User{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, fault.Authorization("invalid_credentials", "invalid credentials")
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("last login update failed", "userId", user.ID, "err", err)
	}
	return user, nil
}
