// Package hours tracks the weekly confirmed-hours workflow: employees
// record what they actually worked, submit it, and employers approve or
// reject the submission. Every state transition is a single conditional
// update so concurrent callers cannot double-apply one.
package hours

import (
	"context"
	"strings"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/schedule"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// GetWeekly returns the confirmed-hours record for one employee, business
// and week. When no record exists but the employee has posted shifts that
// week, a draft is materialized first, prefilled with the scheduled hours.
func (s *Service) GetWeekly(ctx context.Context, employeeID, businessID, weekStart string) (ConfirmedHours, error) {
	week, err := schedule.ParseWeek(weekStart)
	if err != nil {
		return ConfirmedHours{}, err
	}
	if err := s.ensureExists(ctx, employeeID, businessID, week); err != nil {
		return ConfirmedHours{}, err
	}
	return s.Store.GetWeekly(ctx, employeeID, businessID, week)
}

// ensureExists creates the draft row at most once. A concurrent create
// hitting the (employee, business, week) uniqueness constraint is treated
// as success; the caller re-reads whichever row won.
func (s *Service) ensureExists(ctx context.Context, employeeID, businessID string, week time.Time) error {
	_, err := s.Store.GetWeekly(ctx, employeeID, businessID, week)
	if err == nil {
		return nil
	}
	if fault.KindOf(err) != fault.KindNotFound {
		return err
	}

	daily, err := s.Store.ScheduledDaily(ctx, employeeID, businessID, week)
	if err != nil {
		return err
	}
	if Total(daily) <= 0 {
		return nil
	}

	ch := ConfirmedHours{EmployeeID: employeeID, BusinessID: businessID, Status: StatusDraft}
	ch.SetDaily(daily)
	if _, err := s.Store.Insert(ctx, ch, week); err != nil {
		if fault.KindOf(err) == fault.KindConflict {
			return nil
		}
		return err
	}
	return nil
}

// Create starts a confirmed-hours record for a week with no posted
// shifts, or any week the lazy path has not materialized yet.
func (s *Service) Create(ctx context.Context, employeeID string, in CreateInput) (ConfirmedHours, error) {
	week, err := schedule.ParseWeek(in.WeekStartDate)
	if err != nil {
		return ConfirmedHours{}, err
	}
	daily := in.Daily()
	if err := ValidateDaily(daily); err != nil {
		return ConfirmedHours{}, err
	}

	ch := ConfirmedHours{EmployeeID: employeeID, BusinessID: in.BusinessID, Status: StatusDraft, Notes: strings.TrimSpace(in.Notes)}
	ch.SetDaily(daily)
	id, err := s.Store.Insert(ctx, ch, week)
	if err != nil {
		return ConfirmedHours{}, err
	}
	return s.Store.GetByID(ctx, id)
}

// Update replaces the daily values of a draft or rejected record. Editing
// a rejected record returns it to draft and clears the rejection fields.
func (s *Service) Update(ctx context.Context, id, employeeID string, in HoursInput) (ConfirmedHours, error) {
	daily := in.Daily()
	if err := ValidateDaily(daily); err != nil {
		return ConfirmedHours{}, err
	}
	if err := s.Store.UpdateDraft(ctx, id, employeeID, daily, Total(daily), strings.TrimSpace(in.Notes)); err != nil {
		return ConfirmedHours{}, err
	}
	return s.Store.GetByID(ctx, id)
}

// Submit moves a draft or rejected record to submitted. Resubmitting
// after a rejection clears the rejection fields.
func (s *Service) Submit(ctx context.Context, id, employeeID string) (ConfirmedHours, error) {
	if err := s.Store.Submit(ctx, id, employeeID); err != nil {
		return ConfirmedHours{}, err
	}
	return s.Store.GetByID(ctx, id)
}

// Approve marks a submitted record approved. Only the owner of the
// record's business can approve, and approval is terminal.
func (s *Service) Approve(ctx context.Context, id, ownerUserID string) (ConfirmedHours, error) {
	if err := s.Store.Approve(ctx, id, ownerUserID); err != nil {
		return ConfirmedHours{}, err
	}
	return s.Store.GetByID(ctx, id)
}

// Reject returns a submitted record to the employee with a reason. The
// reason is mandatory; the record stays editable for resubmission.
func (s *Service) Reject(ctx context.Context, id, ownerUserID, reason string) (ConfirmedHours, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ConfirmedHours{}, fault.Validation("rejection_reason_required", "a rejection reason is required")
	}
	if err := s.Store.Reject(ctx, id, ownerUserID, reason); err != nil {
		return ConfirmedHours{}, err
	}
	return s.Store.GetByID(ctx, id)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]ConfirmedHours, error) {
	list, err := s.Store.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []ConfirmedHours{}
	}
	return list, nil
}

func (s *Service) ListForBusiness(ctx context.Context, businessID, status string) ([]ConfirmedHours, error) {
	if status != "" && !validStatus(status) {
		return nil, fault.Validation("invalid_status", "unknown status %q", status)
	}
	list, err := s.Store.ListForBusiness(ctx, businessID, status)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []ConfirmedHours{}
	}
	return list, nil
}

func validStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}
