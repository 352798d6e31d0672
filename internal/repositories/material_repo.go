package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"matflow/internal/common"
	"matflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock implements
// it for tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetByCode(ctx context.Context, code string) (*models.Material, error)
	Filter(ctx context.Context, filter *models.MaterialFilter) ([]*models.Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialRepo struct {
	db DB
}

func NewMaterialRepo(db DB) MaterialRepository {
	return &materialRepo{db: db}
}

const materialColumns = `id, code, name, description, category, thickness, density,
		width, height, depth, color, finish,
		allowed_thicknesses, warning_threshold, error_threshold, max_cut_length, min_cut_width,
		props, unit_cost, currency, unit, is_standard, certifications, tags,
		created_at, updated_at`

func (r *materialRepo) Create(ctx context.Context, m *models.Material) error {
	props, err := json.Marshal(m.Props)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query,
		m.ID, m.Code, m.Name, m.Description, m.Category, m.Thickness, m.Density,
		m.Size.Width, m.Size.Height, m.Size.Depth, m.Color, m.Finish,
		m.Tolerance.AllowedThicknesses, m.Tolerance.WarningThreshold, m.Tolerance.ErrorThreshold,
		m.Tolerance.MaxCutLength, m.Tolerance.MinCutWidth,
		props, m.UnitCost, m.Currency, m.Unit, m.IsStandard, m.Certifications, m.Tags,
	)
	return err
}

func scanMaterial(row pgx.Row) (*models.Material, error) {
	m := &models.Material{}
	var props []byte
	err := row.Scan(
		&m.ID, &m.Code, &m.Name, &m.Description, &m.Category, &m.Thickness, &m.Density,
		&m.Size.Width, &m.Size.Height, &m.Size.Depth, &m.Color, &m.Finish,
		&m.Tolerance.AllowedThicknesses, &m.Tolerance.WarningThreshold, &m.Tolerance.ErrorThreshold,
		&m.Tolerance.MaxCutLength, &m.Tolerance.MinCutWidth,
		&props, &m.UnitCost, &m.Currency, &m.Unit, &m.IsStandard, &m.Certifications, &m.Tags,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		if err := json.Unmarshal(props, &m.Props); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *materialRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	m, err := scanMaterial(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("material %s", id)
	}
	return m, err
}

func (r *materialRepo) GetByCode(ctx context.Context, code string) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE code = $1`
	m, err := scanMaterial(r.db.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("material with code %q", code)
	}
	return m, err
}

// availabilityClause restricts the catalog query to materials whose inventory
// record classifies into the given availability class. Materials that were
// never stocked count as out-of-stock.
func availabilityClause(status models.StockStatus) string {
	switch status {
	case models.StockStatusOut:
		return ` AND NOT EXISTS (
			SELECT 1 FROM inventory_records ir WHERE ir.material_id = materials.id AND ir.available_quantity > 0)`
	case models.StockStatusLow:
		return ` AND EXISTS (
			SELECT 1 FROM inventory_records ir WHERE ir.material_id = materials.id
				AND ir.available_quantity > 0 AND ir.available_quantity <= ir.reorder_point)`
	case models.StockStatusExcess:
		return ` AND EXISTS (
			SELECT 1 FROM inventory_records ir WHERE ir.material_id = materials.id
				AND ir.available_quantity >= ir.max_stock_level)`
	default: // in stock
		return ` AND EXISTS (
			SELECT 1 FROM inventory_records ir WHERE ir.material_id = materials.id
				AND ir.available_quantity > ir.reorder_point AND ir.available_quantity < ir.max_stock_level)`
	}
}

// Filter lists catalog entries matching the given criteria. The free-text
// query is a case-insensitive substring match over name, code, category and
// description; a row matches when any one field contains the query.
func (r *materialRepo) Filter(ctx context.Context, filter *models.MaterialFilter) ([]*models.Material, error) {
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)

	queryBase := `SELECT ` + materialColumns + ` FROM materials WHERE TRUE`
	args := []interface{}{}
	n := 0

	if filter.Category != nil {
		n++
		queryBase += fmt.Sprintf(` AND category = $%d`, n)
		args = append(args, *filter.Category)
	}
	if filter.MinPrice != nil {
		n++
		queryBase += fmt.Sprintf(` AND unit_cost >= $%d`, n)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		n++
		queryBase += fmt.Sprintf(` AND unit_cost <= $%d`, n)
		args = append(args, *filter.MaxPrice)
	}
	if filter.Availability != nil {
		queryBase += availabilityClause(*filter.Availability)
	}
	if q := common.SanitizeSearchQuery(filter.Query); q != "" {
		n++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d OR category::text ILIKE $%d OR description ILIKE $%d)`, n, n, n, n)
		args = append(args, "%"+q+"%")
	}

	queryBase += ` ORDER BY code ASC`
	n++
	queryBase += fmt.Sprintf(` LIMIT $%d`, n)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		n++
		queryBase += fmt.Sprintf(` OFFSET $%d`, n)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// Delete removes a catalog entry. Entries referenced by inventory, BOM lines
// or orders are protected.
func (r *materialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var referenced bool
	check := `
		SELECT EXISTS (SELECT 1 FROM inventory_records WHERE material_id = $1)
			OR EXISTS (SELECT 1 FROM bom_lines WHERE material_id = $1)
			OR EXISTS (SELECT 1 FROM material_orders WHERE material_id = $1)
	`
	if err := r.db.QueryRow(ctx, check, id).Scan(&referenced); err != nil {
		return err
	}
	if referenced {
		return common.ErrMaterialReferenced
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundf("material %s", id)
	}
	return nil
}
