package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/config"
)

// Seed provisions a demo owner with one business and two rostered
// employees so a fresh install can schedule and reconcile right away.
// It is idempotent and does nothing unless seed credentials are set.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if strings.TrimSpace(cfg.SeedOwnerEmail) == "" || strings.TrimSpace(cfg.SeedOwnerPassword) == "" {
		return nil
	}

	ownerID, err := ensureUser(ctx, pool, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword, auth.RoleBusiness)
	if err != nil {
		return err
	}

	businessID, err := ensureBusiness(ctx, pool, ownerID, "Demo Coffee Co", "Portland, OR")
	if err != nil {
		return err
	}

	workers := []struct {
		email    string
		name     string
		password string
		rate     float64
	}{
		{"demo.barista@example.com", "Demo Barista", cfg.SeedOwnerPassword, 18.50},
		{"demo.server@example.com", "Demo Server", cfg.SeedOwnerPassword, 16.25},
	}
	for _, w := range workers {
		userID, err := ensureUser(ctx, pool, w.email, w.password, auth.RoleEmployee)
		if err != nil {
			return err
		}
		employeeID, err := ensureEmployee(ctx, pool, userID, w.name)
		if err != nil {
			return err
		}
		if err := ensureMember(ctx, pool, businessID, employeeID); err != nil {
			return err
		}
		if err := ensureRate(ctx, pool, businessID, employeeID, w.rate); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, role string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role)
    VALUES ($1, $2, $3)
    RETURNING id
  `, email, hash, role).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureBusiness(ctx context.Context, pool *pgxpool.Pool, ownerID, name, location string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM businesses WHERE owner_id = $1 AND name = $2", ownerID, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO businesses (owner_id, name, location)
    VALUES ($1, $2, $3)
    RETURNING id
  `, ownerID, name, location).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, userID, fullName string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO employees (user_id, full_name)
    VALUES ($1, $2)
    RETURNING id
  `, userID, fullName).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureMember(ctx context.Context, pool *pgxpool.Pool, businessID, employeeID string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO business_employees (business_id, employee_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING
  `, businessID, employeeID)
	return err
}

func ensureRate(ctx context.Context, pool *pgxpool.Pool, businessID, employeeID string, rate float64) error {
	var count int
	if err := pool.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employee_rates
    WHERE business_id = $1 AND employee_id = $2
  `, businessID, employeeID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := pool.Exec(ctx, `
    INSERT INTO employee_rates (business_id, employee_id, hourly_rate, effective_from)
    VALUES ($1, $2, $3, CURRENT_DATE)
  `, businessID, employeeID, rate)
	return err
}
