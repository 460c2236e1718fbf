package driver_test

import (
	"testing"
	"time"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var licenseExpiry = time.Date(2030, time.June, 30, 0, 0, 0, 0, time.UTC)

func TestNewDriver(t *testing.T) {
	t.Run("should create on-duty driver with defaults", func(t *testing.T) {
		id := kernel.NewUUID()

		d, err := driver.NewDriver(id, "Alex Kim", licenseExpiry)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.True(t, d.ID().IsEqual(id))
		assert.Equal(t, driver.OnDuty, d.Status())
		assert.Equal(t, 0, d.TripsCompleted())
		assert.Equal(t, 100, d.SafetyScore())
		assert.Equal(t, licenseExpiry, d.LicenseExpiry())
		assert.True(t, d.IsOnDuty())
	})

	t.Run("should require name and license expiry", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "", time.Time{})

		require.Error(t, err)
		assert.Nil(t, d)
		assert.Contains(t, err.Error(), "value is required: name")
		assert.Contains(t, err.Error(), "value is required: licenseExpiry")
	})
}

func TestRestoreDriver(t *testing.T) {
	t.Run("should restore persisted counters", func(t *testing.T) {
		d, err := driver.RestoreDriver(kernel.NewUUID(), "Sam", driver.OnTrip, licenseExpiry, 12, 88)

		require.NoError(t, err)
		assert.Equal(t, driver.OnTrip, d.Status())
		assert.Equal(t, 12, d.TripsCompleted())
		assert.Equal(t, 88, d.SafetyScore())
		assert.False(t, d.IsOnDuty())
	})

	t.Run("should reject out of range values", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Sam", driver.OnDuty, licenseExpiry, -1, 101)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "tripsCompleted is invalid")
	})
}

func TestDriver_IsLicenseExpired(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), "Sam", licenseExpiry)
	require.NoError(t, err)

	assert.False(t, d.IsLicenseExpired(licenseExpiry.Add(-24*time.Hour)))
	assert.False(t, d.IsLicenseExpired(licenseExpiry))
	assert.True(t, d.IsLicenseExpired(licenseExpiry.Add(time.Second)))
}

func TestDriver_CompleteTrip(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), "Sam", licenseExpiry)
	require.NoError(t, err)

	d.CompleteTrip()
	d.CompleteTrip()

	assert.Equal(t, 2, d.TripsCompleted())

	d.RevertCompletedTrip()
	assert.Equal(t, 1, d.TripsCompleted())
	d.RevertCompletedTrip()
	d.RevertCompletedTrip()
	assert.Equal(t, 0, d.TripsCompleted())
}

func TestDriver_SetSafetyScore(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), "Sam", licenseExpiry)
	require.NoError(t, err)

	require.NoError(t, d.SetSafetyScore(0))
	require.NoError(t, d.SetSafetyScore(100))

	err = d.SetSafetyScore(150)
	var rangeErr *errs.ValueIsOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 150, rangeErr.Value)
	assert.Equal(t, 100, d.SafetyScore())
}

func TestDriver_SetStatus(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), "Sam", licenseExpiry)
	require.NoError(t, err)

	require.NoError(t, d.SetStatus(driver.Suspended))
	assert.Equal(t, driver.Suspended, d.Status())
	require.Error(t, d.SetStatus(driver.Unknown))
	assert.Equal(t, driver.Suspended, d.Status())
}

func TestDriverStatus(t *testing.T) {
	for _, s := range []driver.Status{driver.OnDuty, driver.OffDuty, driver.Suspended, driver.OnTrip} {
		parsed, err := driver.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := driver.ParseStatus("available")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "unknown", driver.Status(9).String())
	require.Error(t, driver.Status(9).Validate())
}
