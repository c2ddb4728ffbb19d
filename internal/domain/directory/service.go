// Package directory holds the business and employee display records
// the scheduling and payroll domains enrich their listings with.
package directory

import (
	"context"
	"strings"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) CreateBusiness(ctx context.Context, ownerID string, in BusinessInput) (Business, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" {
		return Business{}, fault.Validation("name_required", "a business name is required")
	}
	id, err := s.Store.CreateBusiness(ctx, ownerID, in)
	if err != nil {
		return Business{}, err
	}
	return s.Store.GetBusiness(ctx, id)
}

func (s *Service) GetBusiness(ctx context.Context, businessID string) (Business, error) {
	return s.Store.GetBusiness(ctx, businessID)
}

func (s *Service) ListBusinessesForOwner(ctx context.Context, ownerID string) ([]Business, error) {
	out, err := s.Store.ListBusinessesForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Business{}
	}
	return out, nil
}

func (s *Service) IsOwner(ctx context.Context, businessID, userID string) (bool, error) {
	return s.Store.IsOwner(ctx, businessID, userID)
}

func (s *Service) CreateEmployee(ctx context.Context, userID, fullName, phone string) (Employee, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return Employee{}, fault.Validation("name_required", "an employee name is required")
	}
	id, err := s.Store.CreateEmployee(ctx, userID, fullName, strings.TrimSpace(phone))
	if err != nil {
		return Employee{}, err
	}
	return s.Store.GetEmployee(ctx, id)
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

// EmployeeIDForUser resolves the caller's employee profile. Employee
// facing handlers use it to scope queries to the authenticated worker.
func (s *Service) EmployeeIDForUser(ctx context.Context, userID string) (string, error) {
	emp, err := s.Store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return emp.ID, nil
}

func (s *Service) AddMember(ctx context.Context, businessID, employeeID string) error {
	if _, err := s.Store.GetEmployee(ctx, employeeID); err != nil {
		return err
	}
	return s.Store.AddMember(ctx, businessID, employeeID)
}

func (s *Service) ListMembers(ctx context.Context, businessID string) ([]Member, error) {
	out, err := s.Store.ListMembers(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Member{}
	}
	return out, nil
}

func (s *Service) IsMember(ctx context.Context, businessID, employeeID string) (bool, error) {
	return s.Store.IsMember(ctx, businessID, employeeID)
}
