package util

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewNotFound("ticket", map[string]any{"ticket_id": "tick009"})
	wrapped := fmt.Errorf("disable: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, "ticket not found", de.Message)
	assert.Equal(t, "tick009", de.Details["ticket_id"])
}

func TestToDomainError_MapsMissingFile(t *testing.T) {
	de := ToDomainError(fmt.Errorf("open: %w", fs.ErrNotExist))
	require.NotNil(t, de)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.ErrorIs(t, de, fs.ErrNotExist)
}

func TestToDomainError_DefaultsToInternal(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	require.NotNil(t, de)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal error: boom", de.Error())
	assert.Nil(t, ToDomainError(nil))
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewValidationError("bad date", nil), CodeValidation))
	assert.False(t, IsCode(NewForbidden("nope"), CodeValidation))
	assert.False(t, IsCode(nil, CodeValidation))
}
