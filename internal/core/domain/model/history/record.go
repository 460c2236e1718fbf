package history

import (
	"errors"
	"strings"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	// ErrRecordIsNotConstructed is returned when using a Record that skipped its constructor.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord")
	// ErrNewStatusIsRequired is returned for an entry without a target status.
	ErrNewStatusIsRequired = errs.NewValueIsRequiredError("newStatus")
)

// Entry is what a caller hands to the history log: one accepted status change
// before the log assigned it an identity, a sequence and a timestamp.
type Entry struct {
	EntityType     kernel.EntityType
	EntityID       kernel.UUID
	PreviousStatus string
	NewStatus      string
	Reason         *string
}

// NewEntry builds a validated Entry. A blank reason is stored as nil.
//
// Example:
//
//	e, err := history.NewEntry(kernel.EntityTypeVehicle, v.ID(), "available", "in-shop", "brake check")
func NewEntry(
	entityType kernel.EntityType,
	entityID kernel.UUID,
	previousStatus, newStatus string,
	reason string,
) (Entry, error) {
	e := Entry{
		EntityType:     entityType,
		EntityID:       entityID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
	}
	if r := strings.TrimSpace(reason); r != "" {
		e.Reason = &r
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the fields every history backend relies on.
func (e Entry) Validate() error {
	var newStatusErr error
	if e.NewStatus == "" {
		newStatusErr = ErrNewStatusIsRequired
	}
	return errors.Join(
		e.EntityType.Validate(),
		e.EntityID.Validate(),
		newStatusErr,
	)
}

// Record is an immutable StatusChangeRecord: one accepted transition of one entity.
//
// Records of the same entity are ordered by CreatedAt and then by Sequence,
// which the history log assigns monotonically. Two records created within the
// same millisecond therefore still have a stable order.
type Record struct {
	id        kernel.UUID
	sequence  int64
	entry     Entry
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewRecord is used by history log implementations to materialize a record,
// both when appending and when reading it back.
//
// createdAt is normalized to UTC with millisecond resolution so every backend
// round-trips the same value.
func NewRecord(id kernel.UUID, sequence int64, entry Entry, createdAt time.Time) (*Record, error) {
	if err := errors.Join(id.Validate(), entry.Validate()); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}
	if entry.Reason != nil {
		r := *entry.Reason
		entry.Reason = &r
	}
	return &Record{
		id:        id,
		sequence:  sequence,
		entry:     entry,
		createdAt: createdAt.UTC().Truncate(time.Millisecond),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordIsNotConstructed
	}
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

func (r *Record) ID() kernel.UUID { return r.id }
func (r *Record) Sequence() int64 { return r.sequence }
func (r *Record) EntityType() kernel.EntityType { return r.entry.EntityType }
func (r *Record) EntityID() kernel.UUID { return r.entry.EntityID }
func (r *Record) PreviousStatus() string { return r.entry.PreviousStatus }
func (r *Record) NewStatus() string { return r.entry.NewStatus }
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// Reason returns the free-text reason, or nil when none was given.
func (r *Record) Reason() *string {
	if r.entry.Reason == nil {
		return nil
	}
	s := *r.entry.Reason
	return &s
}

// ReasonText returns the reason or an empty string.
func (r *Record) ReasonText() string {
	if r.entry.Reason == nil {
		return ""
	}
	return *r.entry.Reason
}

// Before reports whether r precedes other in per-entity order.
func (r *Record) Before(other *Record) bool {
	if !r.createdAt.Equal(other.createdAt) {
		return r.createdAt.Before(other.createdAt)
	}
	return r.sequence < other.sequence
}
