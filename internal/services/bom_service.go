package services

import (
	"context"
	"sort"

	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMLineInput is one incoming BOM line from the upstream planning tool.
type BOMLineInput struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	WastePercent float64         `json:"waste_percent"`
	Unit         string          `json:"unit"`
}

// BOMService attaches per-element BOM lines and consolidates them into
// project-level demand.
type BOMService interface {
	// AttachBOM replaces the element's lines wholesale.
	AttachBOM(ctx context.Context, elementID, projectID uuid.UUID, lines []BOMLineInput) ([]*models.BOMLine, error)
	ListByElement(ctx context.Context, elementID uuid.UUID) ([]*models.BOMLine, error)
	// Consolidate aggregates every line of every element of the project into
	// one row per material: sum of quantity * (1 + waste/100).
	Consolidate(ctx context.Context, projectID uuid.UUID) ([]models.ConsolidatedRequirement, error)
}

type bomService struct {
	bomRepo      repositories.BOMRepository
	materialRepo repositories.MaterialRepository
}

func NewBOMService(bomRepo repositories.BOMRepository, materialRepo repositories.MaterialRepository) BOMService {
	return &bomService{
		bomRepo:      bomRepo,
		materialRepo: materialRepo,
	}
}

func (s *bomService) AttachBOM(ctx context.Context, elementID, projectID uuid.UUID, inputs []BOMLineInput) ([]*models.BOMLine, error) {
	if elementID == uuid.Nil {
		return nil, common.InvalidArgumentf("element id is required")
	}
	if projectID == uuid.Nil {
		return nil, common.InvalidArgumentf("project id is required")
	}

	lines := make([]*models.BOMLine, 0, len(inputs))
	for i, in := range inputs {
		if in.MaterialID == uuid.Nil {
			return nil, common.InvalidArgumentf("line %d: material id is required", i)
		}
		if !in.Quantity.IsPositive() {
			return nil, common.InvalidArgumentf("line %d: quantity must be positive", i)
		}
		if err := common.ValidateWastePercent(in.WastePercent); err != nil {
			return nil, err
		}
		// Lines may only reference catalog materials.
		if _, err := s.materialRepo.GetByID(ctx, in.MaterialID); err != nil {
			return nil, err
		}

		lines = append(lines, &models.BOMLine{
			ID:           uuid.New(),
			ElementID:    elementID,
			ProjectID:    projectID,
			MaterialID:   in.MaterialID,
			Quantity:     in.Quantity,
			WastePercent: in.WastePercent,
			Unit:         in.Unit,
		})
	}

	if err := s.bomRepo.ReplaceForElement(ctx, elementID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *bomService) ListByElement(ctx context.Context, elementID uuid.UUID) ([]*models.BOMLine, error) {
	return s.bomRepo.ListByElement(ctx, elementID)
}

func (s *bomService) Consolidate(ctx context.Context, projectID uuid.UUID) ([]models.ConsolidatedRequirement, error) {
	lines, err := s.bomRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ConsolidateLines(lines), nil
}

// ConsolidateLines groups BOM lines by material across all elements and sums
// their net quantities. Pure; safe to re-run whenever element BOMs change.
func ConsolidateLines(lines []*models.BOMLine) []models.ConsolidatedRequirement {
	byMaterial := make(map[uuid.UUID]*models.ConsolidatedRequirement)
	for _, line := range lines {
		req, ok := byMaterial[line.MaterialID]
		if !ok {
			req = &models.ConsolidatedRequirement{
				MaterialID:       line.MaterialID,
				RequiredQuantity: decimal.Zero,
				Unit:             line.Unit,
			}
			byMaterial[line.MaterialID] = req
		}
		req.RequiredQuantity = req.RequiredQuantity.Add(line.NetQuantity())
		req.LineCount++
	}

	result := make([]models.ConsolidatedRequirement, 0, len(byMaterial))
	for _, req := range byMaterial {
		result = append(result, *req)
	}
	// Deterministic output order for stable API responses.
	sort.Slice(result, func(i, j int) bool {
		return result[i].MaterialID.String() < result[j].MaterialID.String()
	})
	return result
}
