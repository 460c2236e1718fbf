package vehicle_test

import (
	"testing"

	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, 0, int(vehicle.Unknown))
	assert.Equal(t, 1, int(vehicle.Available))
	assert.Equal(t, 2, int(vehicle.OnTrip))
	assert.Equal(t, 3, int(vehicle.InShop))
	assert.Equal(t, 4, int(vehicle.Retired))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []vehicle.Status{vehicle.Available, vehicle.OnTrip, vehicle.InShop, vehicle.Retired} {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := vehicle.ParseStatus(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		})
	}

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, in := range []string{"", "unknown", "Available", "on_trip", "dispatched"} {
			parsed, err := vehicle.ParseStatus(in)

			require.Error(t, err, in)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			assert.Equal(t, vehicle.Unknown, parsed)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, vehicle.Available.Validate())

	err := vehicle.Unknown.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 is not a valid vehicle status")

	require.Error(t, vehicle.Status(-1).Validate())
	require.Error(t, vehicle.Status(5).Validate())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "on-trip", vehicle.OnTrip.String())
	assert.Equal(t, "in-shop", vehicle.InShop.String())
	assert.Equal(t, "unknown", vehicle.Unknown.String())
	assert.Equal(t, "unknown", vehicle.Status(42).String())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, vehicle.Retired.IsTerminal())
	assert.False(t, vehicle.Available.IsTerminal())
	assert.False(t, vehicle.InShop.IsTerminal())
}
