package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category identifies the material family. Each category carries its own
// payload in CategoryProps.
type Category string

const (
	CategorySheetMaterial Category = "sheet-material"
	CategoryHardware      Category = "hardware"
	CategoryLighting      Category = "lighting"
	CategoryElectronics   Category = "electronics"
	CategoryMetalProfile  Category = "metal-profile"
	CategoryTextile       Category = "textile"
	CategoryCustom        Category = "custom"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySheetMaterial, CategoryHardware, CategoryLighting,
		CategoryElectronics, CategoryMetalProfile, CategoryTextile, CategoryCustom:
		return true
	}
	return false
}

// Default tolerance thresholds in millimeters, applied when a material does
// not override them.
const (
	DefaultWarningThresholdMM = 1.0
	DefaultErrorThresholdMM   = 3.0
)

// ToleranceRules holds the dimensional validation rules for a material.
type ToleranceRules struct {
	AllowedThicknesses []float64 `json:"allowed_thicknesses,omitempty" db:"allowed_thicknesses"`
	WarningThreshold   float64   `json:"warning_threshold" db:"warning_threshold"` // mm
	ErrorThreshold     float64   `json:"error_threshold" db:"error_threshold"`     // mm
	MaxCutLength       *float64  `json:"max_cut_length,omitempty" db:"max_cut_length"`
	MinCutWidth        *float64  `json:"min_cut_width,omitempty" db:"min_cut_width"`
}

// WarningMM returns the warning threshold, falling back to the default.
func (r ToleranceRules) WarningMM() float64 {
	if r.WarningThreshold > 0 {
		return r.WarningThreshold
	}
	return DefaultWarningThresholdMM
}

// ErrorMM returns the error threshold, falling back to the default.
func (r ToleranceRules) ErrorMM() float64 {
	if r.ErrorThreshold > 0 {
		return r.ErrorThreshold
	}
	return DefaultErrorThresholdMM
}

// Dimensions are the nominal outer dimensions in millimeters.
type Dimensions struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
}

// SheetProps describes sheet materials (plywood, MDF, acrylic).
type SheetProps struct {
	CoreType       string `json:"core_type,omitempty"`
	GrainDirection string `json:"grain_direction,omitempty"`
	DoubleSided    bool   `json:"double_sided,omitempty"`
}

// HardwareProps describes fittings and fasteners.
type HardwareProps struct {
	Mounting string `json:"mounting,omitempty"`
	PackSize int    `json:"pack_size,omitempty"`
}

// LightingProps describes lighting components.
type LightingProps struct {
	Wattage          float64 `json:"wattage,omitempty"`
	ColorTemperature int     `json:"color_temperature,omitempty"` // Kelvin
	Dimmable         bool    `json:"dimmable,omitempty"`
}

// ElectronicsProps describes electronic components.
type ElectronicsProps struct {
	Voltage  float64 `json:"voltage,omitempty"`
	IPRating string  `json:"ip_rating,omitempty"`
}

// MetalProfileProps describes extruded or rolled metal profiles.
type MetalProfileProps struct {
	ProfileShape  string  `json:"profile_shape,omitempty"`
	WallThickness float64 `json:"wall_thickness,omitempty"` // mm
	Alloy         string  `json:"alloy,omitempty"`
}

// TextileProps describes fabrics and upholstery materials.
type TextileProps struct {
	Composition string  `json:"composition,omitempty"`
	RollWidth   float64 `json:"roll_width,omitempty"` // mm
	FireRating  string  `json:"fire_rating,omitempty"`
}

// CategoryProps is the category-specific payload of a material. Exactly one
// field is populated and it must match Material.Category; custom materials
// carry none.
type CategoryProps struct {
	Sheet        *SheetProps        `json:"sheet,omitempty"`
	Hardware     *HardwareProps     `json:"hardware,omitempty"`
	Lighting     *LightingProps     `json:"lighting,omitempty"`
	Electronics  *ElectronicsProps  `json:"electronics,omitempty"`
	MetalProfile *MetalProfileProps `json:"metal_profile,omitempty"`
	Textile      *TextileProps      `json:"textile,omitempty"`
}

// Material is a catalog entry: static reference data, never deleted while
// inventory, BOM lines or orders reference it.
type Material struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    Category  `json:"category" db:"category"`

	Thickness *float64   `json:"thickness,omitempty" db:"thickness"` // nominal, mm
	Density   *float64   `json:"density,omitempty" db:"density"`     // kg/m3
	Size      Dimensions `json:"size,omitempty"`
	Color     *string    `json:"color,omitempty" db:"color"`
	Finish    *string    `json:"finish,omitempty" db:"finish"`

	Tolerance ToleranceRules `json:"tolerance"`
	Props     CategoryProps  `json:"props,omitempty"`

	UnitCost decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Currency string          `json:"currency" db:"currency"`
	Unit     string          `json:"unit" db:"unit"`

	IsStandard     bool     `json:"is_standard" db:"is_standard"`
	Certifications []string `json:"certifications,omitempty" db:"certifications"`
	Tags           []string `json:"tags,omitempty" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MaterialFilter holds search and filter criteria for catalog queries
type MaterialFilter struct {
	Category     *Category        `json:"category,omitempty"`     // Category filter
	Availability *StockStatus     `json:"availability,omitempty"` // Stock availability class filter
	MinPrice     *decimal.Decimal `json:"min_price,omitempty"`    // Minimum unit cost
	MaxPrice     *decimal.Decimal `json:"max_price,omitempty"`    // Maximum unit cost
	Query        string           `json:"query,omitempty"`        // Case-insensitive substring over name, code, category, description
	Limit        int              `json:"limit,omitempty"`        // Page size (default: 50)
	Offset       int              `json:"offset,omitempty"`       // Page offset
}
