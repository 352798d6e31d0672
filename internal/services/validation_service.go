package services

import (
	"context"
	"fmt"
	"math"

	"matflow/internal/models"

	"github.com/google/uuid"
)

// ValidationService runs the dimensional tolerance rules of the catalog over
// actual measured thicknesses. The engine is pure; this gate must run before
// any production step that consumes a thickness-sensitive material.
type ValidationService interface {
	ValidateThickness(material *models.Material, actual float64) models.ValidationResult
	ValidateThicknessByID(ctx context.Context, materialID uuid.UUID, actual float64) (models.ValidationResult, error)
}

type validationService struct {
	catalog CatalogService
}

func NewValidationService(catalog CatalogService) ValidationService {
	return &validationService{catalog: catalog}
}

func (s *validationService) ValidateThicknessByID(ctx context.Context, materialID uuid.UUID, actual float64) (models.ValidationResult, error) {
	material, err := s.catalog.Get(ctx, materialID)
	if err != nil {
		return models.ValidationResult{}, err
	}
	return s.ValidateThickness(material, actual), nil
}

// ValidateThickness compares actual against the material's nominal thickness.
// Materials without a nominal thickness always pass. When the material lists
// allowed thicknesses and the measurement sits within warning range of a
// different allowed value, the result is AUTO_CORRECTED with the geometry
// update action instead of a deviation report against the nominal.
func (s *validationService) ValidateThickness(material *models.Material, actual float64) models.ValidationResult {
	if material.Thickness == nil {
		return models.ValidationResult{
			Status:          models.ValidationValid,
			ActualThickness: actual,
			Message:         "no validation required",
		}
	}

	nominal := *material.Thickness
	warning := material.Tolerance.WarningMM()
	errLimit := material.Tolerance.ErrorMM()
	deviation := math.Abs(actual - nominal)

	// A measurement within warning range of the nominal is fine as is;
	// auto-correction only applies once the nominal itself is off.
	if deviation > warning {
		if nearest, ok := nearestAllowed(material.Tolerance.AllowedThicknesses, actual); ok && nearest != nominal {
			if dev := math.Abs(actual - nearest); dev <= warning {
				action := models.ActionUpdateGeometry
				return models.ValidationResult{
					Status:            models.ValidationAutoCorrected,
					Action:            &action,
					ActualThickness:   actual,
					ExpectedThickness: nearest,
					Deviation:         dev,
					Message:           fmt.Sprintf("thickness matches allowed value %.1fmm, not nominal %.1fmm", nearest, nominal),
				}
			}
		}
	}

	switch {
	case deviation > errLimit:
		action := models.ActionBlockProduction
		return models.ValidationResult{
			Status:            models.ValidationError,
			Action:            &action,
			ActualThickness:   actual,
			ExpectedThickness: nominal,
			Deviation:         deviation,
			Message:           fmt.Sprintf("deviation %.2fmm exceeds error threshold %.2fmm", deviation, errLimit),
		}
	case deviation > warning:
		action := models.ActionRequireConfirmation
		return models.ValidationResult{
			Status:            models.ValidationWarning,
			Action:            &action,
			ActualThickness:   actual,
			ExpectedThickness: nominal,
			Deviation:         deviation,
			Message:           fmt.Sprintf("deviation %.2fmm exceeds warning threshold %.2fmm", deviation, warning),
		}
	default:
		return models.ValidationResult{
			Status:            models.ValidationValid,
			ActualThickness:   actual,
			ExpectedThickness: nominal,
			Deviation:         deviation,
		}
	}
}

// nearestAllowed returns the allowed thickness closest to actual.
func nearestAllowed(allowed []float64, actual float64) (float64, bool) {
	if len(allowed) == 0 {
		return 0, false
	}
	nearest := allowed[0]
	for _, t := range allowed[1:] {
		if math.Abs(actual-t) < math.Abs(actual-nearest) {
			nearest = t
		}
	}
	return nearest, true
}
