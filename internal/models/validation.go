package models

// ValidationStatus is the outcome of a dimensional tolerance check.
type ValidationStatus string

const (
	ValidationValid         ValidationStatus = "VALID"
	ValidationWarning       ValidationStatus = "WARNING"
	ValidationError         ValidationStatus = "ERROR"
	ValidationAutoCorrected ValidationStatus = "AUTO_CORRECTED"
)

// ValidationAction is the required follow-up for a non-valid outcome.
type ValidationAction string

const (
	ActionBlockProduction     ValidationAction = "BLOCK_PRODUCTION"
	ActionRequireConfirmation ValidationAction = "REQUIRE_CONFIRMATION"
	ActionUpdateGeometry      ValidationAction = "UPDATE_GEOMETRY"
)

// ValidationResult is the transient outcome of validating an actual thickness
// against a material's nominal rules. It is returned to the caller, never
// persisted; the caller decides whether to block, confirm or proceed.
type ValidationResult struct {
	Status            ValidationStatus  `json:"status"`
	Action            *ValidationAction `json:"action,omitempty"`
	ActualThickness   float64           `json:"actual_thickness"`
	ExpectedThickness float64           `json:"expected_thickness"`
	Deviation         float64           `json:"deviation"`
	Message           string            `json:"message,omitempty"`
}

// Blocking reports whether the result is a hard production stop.
func (r ValidationResult) Blocking() bool {
	return r.Action != nil && *r.Action == ActionBlockProduction
}
