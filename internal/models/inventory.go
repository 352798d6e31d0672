package models

import (
	"time"

	"github.com/google/uuid"
)

// StockStatus classifies an inventory record by its available quantity.
type StockStatus string

const (
	StockStatusOut    StockStatus = "out-of-stock" // available <= 0
	StockStatusLow    StockStatus = "low-stock"    // 0 < available <= reorder point
	StockStatusIn     StockStatus = "in-stock"     // reorder point < available < max level
	StockStatusExcess StockStatus = "excess-stock" // available >= max level
)

// Valid reports whether s is a known stock status.
func (s StockStatus) Valid() bool {
	switch s {
	case StockStatusOut, StockStatusLow, StockStatusIn, StockStatusExcess:
		return true
	}
	return false
}

// ABC classification tiers for replenishment attention.
const (
	ABCClassA = "A"
	ABCClassB = "B"
	ABCClassC = "C"
)

// InventoryRecord is the mutable stock state for one catalog material.
// AvailableQuantity is derived: max(0, current - reserved).
type InventoryRecord struct {
	ID                uuid.UUID `json:"id" db:"id"`
	MaterialID        uuid.UUID `json:"material_id" db:"material_id"`
	CurrentStock      int       `json:"current_stock" db:"current_stock"`
	ReservedQuantity  int       `json:"reserved_quantity" db:"reserved_quantity"`
	AvailableQuantity int       `json:"available_quantity" db:"available_quantity"`
	MinStockLevel     int       `json:"min_stock_level" db:"min_stock_level"`
	MaxStockLevel     int       `json:"max_stock_level" db:"max_stock_level"`
	ReorderPoint      int       `json:"reorder_point" db:"reorder_point"`
	LeadTimeDays      int       `json:"lead_time_days" db:"lead_time_days"`
	Location          *string   `json:"location,omitempty" db:"location"`
	ABCClass          string    `json:"abc_class" db:"abc_class"`
	Version           int64     `json:"version" db:"version"`
	LastUpdated       time.Time `json:"last_updated" db:"last_updated"`
}

// RecomputeAvailable re-derives AvailableQuantity from the current and
// reserved quantities. Never negative.
func (r *InventoryRecord) RecomputeAvailable() {
	avail := r.CurrentStock - r.ReservedQuantity
	if avail < 0 {
		avail = 0
	}
	r.AvailableQuantity = avail
}

// StockStatus classifies the record by its available quantity against the
// reorder point and max stock level.
func (r *InventoryRecord) StockStatus() StockStatus {
	switch {
	case r.AvailableQuantity <= 0:
		return StockStatusOut
	case r.AvailableQuantity <= r.ReorderPoint:
		return StockStatusLow
	case r.AvailableQuantity >= r.MaxStockLevel:
		return StockStatusExcess
	default:
		return StockStatusIn
	}
}

// DefaultLeadTimeDays is applied when a new warehouse record does not specify
// a supplier lead time.
const DefaultLeadTimeDays = 7

// NewInventoryRecord builds a warehouse record for a material with derived
// defaults: min level 20% of the initial stock, max level twice the initial
// stock, reorder point 30%, ABC class by initial volume.
func NewInventoryRecord(materialID uuid.UUID, initialStock int, location *string) *InventoryRecord {
	if initialStock < 0 {
		initialStock = 0
	}

	minLevel := initialStock / 5
	if minLevel < 1 {
		minLevel = 1
	}
	reorder := (initialStock * 3) / 10
	if reorder < 1 {
		reorder = 1
	}

	abc := ABCClassC
	switch {
	case initialStock > 50:
		abc = ABCClassA
	case initialStock > 20:
		abc = ABCClassB
	}

	rec := &InventoryRecord{
		ID:            uuid.New(),
		MaterialID:    materialID,
		CurrentStock:  initialStock,
		MinStockLevel: minLevel,
		MaxStockLevel: initialStock * 2,
		ReorderPoint:  reorder,
		LeadTimeDays:  DefaultLeadTimeDays,
		Location:      location,
		ABCClass:      abc,
		Version:       1,
		LastUpdated:   time.Now(),
	}
	rec.RecomputeAvailable()
	return rec
}
