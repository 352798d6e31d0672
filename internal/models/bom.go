package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMLine is one material requirement of a production element, as emitted by
// the upstream planning tool. Lines are immutable once attached; re-attaching
// an element replaces them wholesale.
type BOMLine struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ElementID    uuid.UUID       `json:"element_id" db:"element_id"`
	ProjectID    uuid.UUID       `json:"project_id" db:"project_id"`
	MaterialID   uuid.UUID       `json:"material_id" db:"material_id"`
	Quantity     decimal.Decimal `json:"quantity" db:"quantity"`
	WastePercent float64         `json:"waste_percent" db:"waste_percent"` // 0-100
	Unit         string          `json:"unit" db:"unit"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// NetQuantity is the line quantity grossed up by its waste allowance:
// quantity * (1 + waste/100).
func (l *BOMLine) NetQuantity() decimal.Decimal {
	factor := decimal.NewFromFloat(1 + l.WastePercent/100)
	return l.Quantity.Mul(factor)
}

// ConsolidatedRequirement is the project-level demand for one material,
// summed over the net quantities of every BOM line of every element.
type ConsolidatedRequirement struct {
	MaterialID       uuid.UUID       `json:"material_id"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	Unit             string          `json:"unit"`
	LineCount        int             `json:"line_count"`
}
