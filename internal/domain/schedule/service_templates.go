package schedule

import (
	"context"
	"strings"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

func (s *Service) ListTemplates(ctx context.Context, businessID string, activeOnly bool) ([]ShiftTemplate, error) {
	templates, err := s.Store.ListTemplates(ctx, businessID, activeOnly)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []ShiftTemplate{}
	}
	return templates, nil
}

func (s *Service) CreateTemplate(ctx context.Context, businessID string, input TemplateInput) (ShiftTemplate, error) {
	tpl, err := buildTemplate(input)
	if err != nil {
		return ShiftTemplate{}, err
	}

	id, err := s.Store.CreateTemplate(ctx, businessID, tpl)
	if err != nil {
		return ShiftTemplate{}, err
	}
	return s.Store.GetTemplate(ctx, businessID, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, businessID, templateID string, input TemplateInput) (ShiftTemplate, error) {
	tpl, err := buildTemplate(input)
	if err != nil {
		return ShiftTemplate{}, err
	}
	tpl.ID = templateID

	if err := s.Store.UpdateTemplate(ctx, businessID, tpl); err != nil {
		return ShiftTemplate{}, err
	}
	return s.Store.GetTemplate(ctx, businessID, templateID)
}

func (s *Service) DeactivateTemplate(ctx context.Context, businessID, templateID string) error {
	return s.Store.DeactivateTemplate(ctx, businessID, templateID)
}

func buildTemplate(input TemplateInput) (ShiftTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ShiftTemplate{}, fault.Validation("missing_template_name", "a shift template needs a name")
	}

	startMin, err := timecodec.ParseAny(input.StartTime)
	if err != nil {
		return ShiftTemplate{}, err
	}
	endMin, err := timecodec.ParseAny(input.EndTime)
	if err != nil {
		return ShiftTemplate{}, err
	}
	if err := CheckShiftTimes(startMin, endMin); err != nil {
		return ShiftTemplate{}, err
	}

	startLabel, err := timecodec.FormatMinute(startMin)
	if err != nil {
		return ShiftTemplate{}, err
	}
	endLabel, err := timecodec.FormatMinute(endMin)
	if err != nil {
		return ShiftTemplate{}, err
	}

	return ShiftTemplate{
		Name:       name,
		StartMin:   startMin,
		EndMin:     endMin,
		StartLabel: startLabel,
		EndLabel:   endLabel,
		Color:      strings.TrimSpace(input.Color),
		IsActive:   true,
	}, nil
}
