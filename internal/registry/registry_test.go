package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKnownNames(t *testing.T) {
	assert.NoError(t, Validate("quick_start"))
	assert.NoError(t, Validate("food_ordering"))
}

func TestValidateUnknownName(t *testing.T) {
	err := Validate("not_a_blueprint")
	require.Error(t, err)

	var unknownErr *UnknownBlueprintError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "not_a_blueprint", unknownErr.Name)
}

func TestNamesContainsAllBlueprints(t *testing.T) {
	names := Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "quick_start")
	assert.Contains(t, names, "food_ordering")
}
