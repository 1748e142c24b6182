package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := ErrInvalidInput.WithMessage("page size must be positive")

	assert.Equal(t, "page size must be positive", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("change pagination: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))

	var de *DomainError
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "INVALID_INPUT", de.Code)
}
