package kernel

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// EntityType names the kind of entity a status belongs to.
//
// The wire form ("vehicle", "driver", "trip") is what history records,
// events and HTTP paths carry.
type EntityType int

const (
	// EntityTypeUnknown is the invalid zero value.
	EntityTypeUnknown EntityType = iota
	// EntityTypeVehicle identifies vehicles.
	EntityTypeVehicle
	// EntityTypeDriver identifies drivers.
	EntityTypeDriver
	// EntityTypeTrip identifies trips.
	EntityTypeTrip
)

var entityTypeNames = map[EntityType]string{
	EntityTypeVehicle: "vehicle",
	EntityTypeDriver:  "driver",
	EntityTypeTrip:    "trip",
}

// EntityTypes lists every valid entity type in lock order.
func EntityTypes() []EntityType {
	return []EntityType{EntityTypeTrip, EntityTypeVehicle, EntityTypeDriver}
}

// ParseEntityType converts the wire form into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	for t, name := range entityTypeNames {
		if name == s {
			return t, nil
		}
	}
	return EntityTypeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"entityType",
		fmt.Errorf("%q is not one of vehicle, driver, trip", s),
	)
}

// Validate rejects EntityTypeUnknown and out of range values.
func (t EntityType) Validate() error {
	if _, ok := entityTypeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("entityType", fmt.Errorf("%d is not a valid entity type", t))
	}
	return nil
}

func (t EntityType) String() string {
	if name, ok := entityTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// LockKey returns the per-entity key used to serialize status changes.
func (t EntityType) LockKey(id UUID) string {
	return t.String() + ":" + id.String()
}
