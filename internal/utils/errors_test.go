package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "prices",
		Message: "must contain at least one observation",
	}

	assert.Equal(t, "prices: must contain at least one observation", err.Error())
}

func TestValidationError_Error_NoField(t *testing.T) {
	err := &ValidationError{
		Message: "test error message",
	}

	assert.Equal(t, "test error message", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("symbol", "must not be empty")

	require.Error(t, err)
	assert.Equal(t, "symbol: must not be empty", err.Error())

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "symbol", validationErr.Field)
	assert.Equal(t, "must not be empty", validationErr.Message)
}

func TestNewValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("timestamps", "length %d does not match %d prices", 3, 5)

	require.Error(t, err)
	assert.Equal(t, "timestamps: length 3 does not match 5 prices", err.Error())

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "timestamps", validationErr.Field)
	assert.Equal(t, "length 3 does not match 5 prices", validationErr.Message)
}
