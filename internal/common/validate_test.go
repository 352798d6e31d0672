package common

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	id := uuid.New()

	parsed, err := ValidateUUID(id.String(), "material id")
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ValidateUUID("not-a-uuid", "material id")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ValidateUUID("", "material id")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidateWastePercent(t *testing.T) {
	assert.NoError(t, ValidateWastePercent(0))
	assert.NoError(t, ValidateWastePercent(12.5))
	assert.NoError(t, ValidateWastePercent(100))
	assert.ErrorIs(t, ValidateWastePercent(-1), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateWastePercent(100.5), ErrInvalidArgument)
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, 0)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, _ = ValidatePaginationParams(5000, 0)
	assert.Equal(t, 1000, limit)

	limit, offset = ValidatePaginationParams(-5, -10)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "mdf", SanitizeSearchQuery("  mdf  "))
	assert.Equal(t, "mdf", SanitizeSearchQuery("m%d_f"))
	assert.Len(t, SanitizeSearchQuery(strings.Repeat("a", 300)), 100)
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	if p := StringPtr("x"); assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
	}
}
