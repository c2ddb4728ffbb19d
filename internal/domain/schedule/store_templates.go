package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

func (s *Store) ListTemplates(ctx context.Context, businessID string, activeOnly bool) ([]ShiftTemplate, error) {
	query := `
    SELECT id, business_id, name, start_min, end_min, start_label, end_label,
           COALESCE(color, ''), is_active, created_at
    FROM shift_templates
    WHERE business_id = $1
  `
	args := []any{businessID}
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []ShiftTemplate
	for rows.Next() {
		var tpl ShiftTemplate
		if err := rows.Scan(&tpl.ID, &tpl.BusinessID, &tpl.Name, &tpl.StartMin, &tpl.EndMin,
			&tpl.StartLabel, &tpl.EndLabel, &tpl.Color, &tpl.IsActive, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

func (s *Store) GetTemplate(ctx context.Context, businessID, templateID string) (ShiftTemplate, error) {
	var tpl ShiftTemplate
	err := s.DB.QueryRow(ctx, `
    SELECT id, business_id, name, start_min, end_min, start_label, end_label,
           COALESCE(color, ''), is_active, created_at
    FROM shift_templates
    WHERE id = $1 AND business_id = $2
  `, templateID, businessID).Scan(&tpl.ID, &tpl.BusinessID, &tpl.Name, &tpl.StartMin, &tpl.EndMin,
		&tpl.StartLabel, &tpl.EndLabel, &tpl.Color, &tpl.IsActive, &tpl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return tpl, fault.NotFound("template_not_found", "shift template %s not found", templateID)
	}
	if err != nil {
		return tpl, err
	}
	return tpl, nil
}

func (s *Store) CreateTemplate(ctx context.Context, businessID string, tpl ShiftTemplate) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_templates (business_id, name, start_min, end_min, start_label, end_label, color)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, businessID, tpl.Name, tpl.StartMin, tpl.EndMin, tpl.StartLabel, tpl.EndLabel, nullIfEmpty(tpl.Color)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateTemplate(ctx context.Context, businessID string, tpl ShiftTemplate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_templates
    SET name = $1, start_min = $2, end_min = $3, start_label = $4, end_label = $5, color = $6
    WHERE id = $7 AND business_id = $8
  `, tpl.Name, tpl.StartMin, tpl.EndMin, tpl.StartLabel, tpl.EndLabel, nullIfEmpty(tpl.Color), tpl.ID, businessID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("template_not_found", "shift template %s not found", tpl.ID)
	}
	return nil
}

// DeactivateTemplate hides a template from pickers without touching the
// shifts that already reference it.
func (s *Store) DeactivateTemplate(ctx context.Context, businessID, templateID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_templates
    SET is_active = false
    WHERE id = $1 AND business_id = $2
  `, templateID, businessID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("template_not_found", "shift template %s not found", templateID)
	}
	return nil
}
