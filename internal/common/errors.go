package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Sentinel errors shared across repositories and services. Handlers map them
// to HTTP status codes with HTTPError.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrVersionConflict     = errors.New("version conflict")
	ErrMaterialReferenced  = errors.New("material is referenced and cannot be deleted")
	ErrAlreadyStocked      = errors.New("material already stocked")
	ErrInsufficientStock   = errors.New("insufficient available stock")
)

// NotFoundf wraps ErrNotFound with a resource description.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidArgumentf wraps ErrInvalidArgument with a field description.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// HTTPError maps a service error to an echo HTTP error.
func HTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrVersionConflict),
		errors.Is(err, ErrMaterialReferenced), errors.Is(err, ErrAlreadyStocked),
		errors.Is(err, ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
