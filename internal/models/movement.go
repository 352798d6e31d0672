package models

import (
	"time"

	"github.com/google/uuid"
)

// MovementReason is the reason code attached to a stock movement.
type MovementReason string

const (
	MovementIn         MovementReason = "IN"
	MovementOut        MovementReason = "OUT"
	MovementTransfer   MovementReason = "TRANSFER"
	MovementAdjustment MovementReason = "ADJUSTMENT"
)

// Valid reports whether r is a known movement reason.
func (r MovementReason) Valid() bool {
	switch r {
	case MovementIn, MovementOut, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is one append-only audit entry for an inventory mutation.
// Movements are never updated or deleted.
type StockMovement struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	MaterialID uuid.UUID      `json:"material_id" db:"material_id"`
	Delta      int            `json:"delta" db:"delta"` // signed
	Reason     MovementReason `json:"reason" db:"reason"`
	ProjectID  *uuid.UUID     `json:"project_id,omitempty" db:"project_id"`
	ElementID  *uuid.UUID     `json:"element_id,omitempty" db:"element_id"`
	OrderID    *uuid.UUID     `json:"order_id,omitempty" db:"order_id"`
	Actor      string         `json:"actor" db:"actor"`
	Note       *string        `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// MovementFilter holds query criteria for the movement ledger
type MovementFilter struct {
	MaterialID *uuid.UUID      `json:"material_id,omitempty"` // Material filter
	ProjectID  *uuid.UUID      `json:"project_id,omitempty"`  // Project linkage filter
	Reason     *MovementReason `json:"reason,omitempty"`      // Reason code filter
	From       *time.Time      `json:"from,omitempty"`        // Created from
	To         *time.Time      `json:"to,omitempty"`          // Created to
	Limit      int             `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int             `json:"offset,omitempty"`      // Page offset
}
