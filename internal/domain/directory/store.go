package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	cryptoutil "github.com/teamworkfission/timebuddyv1-sub000/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *cryptoutil.Service
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, Crypto: crypto}
}

func (s *Store) CreateBusiness(ctx context.Context, ownerID string, in BusinessInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO businesses (owner_id, name, location)
    VALUES ($1, $2, $3)
    RETURNING id
  `, ownerID, in.Name, in.Location).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetBusiness(ctx context.Context, businessID string) (Business, error) {
	var b Business
	err := s.DB.QueryRow(ctx, `
    SELECT id, owner_id, name, COALESCE(location, ''), created_at, updated_at
    FROM businesses
    WHERE id = $1
  `, businessID).Scan(&b.ID, &b.OwnerID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Business{}, fault.NotFound("business_not_found", "business not found")
	}
	if err != nil {
		return Business{}, err
	}
	return b, nil
}

func (s *Store) ListBusinessesForOwner(ctx context.Context, ownerID string) ([]Business, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, owner_id, name, COALESCE(location, ''), created_at, updated_at
    FROM businesses
    WHERE owner_id = $1
    ORDER BY name
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Business
	for rows.Next() {
		var b Business
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// IsOwner reports whether the user owns the business. Handlers gate
// every business-scoped mutation on it.
func (s *Store) IsOwner(ctx context.Context, businessID, userID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM businesses
    WHERE id = $1 AND owner_id = $2
  `, businessID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateEmployee(ctx context.Context, userID, fullName, phone string) (string, error) {
	phonePlain, phoneEnc := s.encryptPhone(phone)
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, full_name, phone, phone_enc)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, userID, fullName, phonePlain, phoneEnc).Scan(&id)
	if isUniqueViolation(err) {
		return "", fault.Conflict("employee_exists", "an employee profile already exists for this user")
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, user_id, full_name, COALESCE(phone, ''), phone_enc, created_at
    FROM employees
    WHERE id = $1
  `, employeeID)
	return s.scanEmployee(row)
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, user_id, full_name, COALESCE(phone, ''), phone_enc, created_at
    FROM employees
    WHERE user_id = $1
  `, userID)
	return s.scanEmployee(row)
}

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var phonePlain string
	var phoneEnc []byte
	err := row.Scan(&emp.ID, &emp.UserID, &emp.FullName, &phonePlain, &phoneEnc, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, fault.NotFound("employee_not_found", "employee not found")
	}
	if err != nil {
		return Employee{}, err
	}
	emp.Phone = s.decryptPhone(phoneEnc, phonePlain)
	return emp, nil
}

func (s *Store) AddMember(ctx context.Context, businessID, employeeID string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO business_employees (business_id, employee_id)
    VALUES ($1, $2)
  `, businessID, employeeID)
	if isUniqueViolation(err) {
		return fault.Conflict("member_exists", "employee is already on this business roster")
	}
	return err
}

func (s *Store) ListMembers(ctx context.Context, businessID string) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.full_name, COALESCE(e.phone, ''), e.phone_enc, be.created_at
    FROM business_employees be
    JOIN employees e ON e.id = be.employee_id
    WHERE be.business_id = $1
    ORDER BY e.full_name
  `, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		var phonePlain string
		var phoneEnc []byte
		if err := rows.Scan(&m.EmployeeID, &m.FullName, &phonePlain, &phoneEnc, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.Phone = s.decryptPhone(phoneEnc, phonePlain)
		out = append(out, m)
	}
	return out, nil
}

// IsMember reports whether the employee is on the business roster.
func (s *Store) IsMember(ctx context.Context, businessID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM business_employees
    WHERE business_id = $1 AND employee_id = $2
  `, businessID, employeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) encryptPhone(phone string) (any, []byte) {
	if s.Crypto == nil || !s.Crypto.Configured() {
		return nullIfEmpty(phone), nil
	}
	enc, _ := s.Crypto.EncryptString(phone)
	return nil, enc
}

func (s *Store) decryptPhone(encrypted []byte, plain string) string {
	if s.Crypto == nil || !s.Crypto.Configured() || len(encrypted) == 0 {
		return plain
	}
	decrypted, err := s.Crypto.DecryptString(encrypted)
	if err != nil {
		return plain
	}
	return decrypted
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
