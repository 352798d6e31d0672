package repositories

import (
	"context"

	"matflow/internal/models"

	"github.com/google/uuid"
)

type BOMRepository interface {
	// ReplaceForElement swaps an element's BOM lines wholesale in one
	// transaction. Lines are immutable; re-attaching replaces them.
	ReplaceForElement(ctx context.Context, elementID uuid.UUID, lines []*models.BOMLine) error
	ListByElement(ctx context.Context, elementID uuid.UUID) ([]*models.BOMLine, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.BOMLine, error)
}

type bomRepo struct {
	db DB
}

func NewBOMRepo(db DB) BOMRepository {
	return &bomRepo{db: db}
}

func (r *bomRepo) ReplaceForElement(ctx context.Context, elementID uuid.UUID, lines []*models.BOMLine) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bom_lines WHERE element_id = $1`, elementID); err != nil {
		return err
	}

	for _, line := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO bom_lines (id, element_id, project_id, material_id, quantity, waste_percent, unit, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		`, line.ID, line.ElementID, line.ProjectID, line.MaterialID, line.Quantity, line.WastePercent, line.Unit)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const bomColumns = `id, element_id, project_id, material_id, quantity, waste_percent, unit, created_at`

func (r *bomRepo) listWhere(ctx context.Context, where string, arg interface{}) ([]*models.BOMLine, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bomColumns+` FROM bom_lines WHERE `+where+` ORDER BY created_at ASC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.BOMLine
	for rows.Next() {
		line := &models.BOMLine{}
		if err := rows.Scan(&line.ID, &line.ElementID, &line.ProjectID, &line.MaterialID,
			&line.Quantity, &line.WastePercent, &line.Unit, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *bomRepo) ListByElement(ctx context.Context, elementID uuid.UUID) ([]*models.BOMLine, error) {
	return r.listWhere(ctx, `element_id = $1`, elementID)
}

func (r *bomRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.BOMLine, error) {
	return r.listWhere(ctx, `project_id = $1`, projectID)
}
