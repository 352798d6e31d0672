package common

import (
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID parses and validates a UUID path or query parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, InvalidArgumentf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, InvalidArgumentf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return InvalidArgumentf("%s is required", fieldName)
	}
	return nil
}

// ValidateWastePercent checks a BOM line waste allowance is within 0-100.
func ValidateWastePercent(waste float64) error {
	if waste < 0 || waste > 100 {
		return InvalidArgumentf("waste_percent must be between 0 and 100, got %v", waste)
	}
	return nil
}

// ValidatePaginationParams normalizes pagination parameters.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SanitizeSearchQuery strips LIKE wildcards from a free-text search term.
// Queries are parameterized everywhere; this keeps user wildcards from
// turning a substring match into a pattern match.
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}

// SafeString safely handles string pointer operations.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FormatRef renders an optional reference id for log lines.
func FormatRef(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
