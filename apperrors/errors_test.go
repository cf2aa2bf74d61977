package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("delete farm: %w", NotFound("Farm not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "Farm not found", Message(err))
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause, "failed to update %s", "farm_locations")

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to update farm_locations: connection reset", err.Error())
}

func TestKindOfForeignError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Equal(t, "boom", Message(err))
}
