package capacity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrSlotUnavailable      = errors.New("slot is not available for booking")
	ErrInvalidCounters      = errors.New("slot counters violate capacity invariant")
	ErrInvalidWindow        = errors.New("slot start must be before end")
)

// InsufficientCapacityError reports the capacity observed when a decrement was refused.
type InsufficientCapacityError struct {
	Available int
	Requested int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: available=%d requested=%d", e.Available, e.Requested)
}

func (e *InsufficientCapacityError) Is(target error) bool {
	return target == ErrInsufficientCapacity
}

// Slot is a bookable time unit. Counters always satisfy
// booked + available == original and 0 <= available <= original.
type Slot struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	serviceID         uuid.UUID
	employeeID        *uuid.UUID
	date              time.Time
	startTime         time.Time
	endTime           time.Time
	originalCapacity  int
	availableCapacity int
	bookedCount       int
	isAvailable       bool
}

type NewSlotParams struct {
	TenantID   uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID *uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Capacity   int
}

func NewSlot(p NewSlotParams) (*Slot, error) {
	if !p.StartTime.Before(p.EndTime) {
		return nil, ErrInvalidWindow
	}
	if p.Capacity < 0 {
		return nil, ErrInvalidCounters
	}
	start := p.StartTime.UTC()
	return &Slot{
		id:                uuid.New(),
		tenantID:          p.TenantID,
		serviceID:         p.ServiceID,
		employeeID:        p.EmployeeID,
		date:              time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		startTime:         start,
		endTime:           p.EndTime.UTC(),
		originalCapacity:  p.Capacity,
		availableCapacity: p.Capacity,
		bookedCount:       0,
		isAvailable:       true,
	}, nil
}

func ReconstructSlot(
	id, tenantID, serviceID uuid.UUID,
	employeeID *uuid.UUID,
	date, startTime, endTime time.Time,
	originalCapacity, availableCapacity, bookedCount int,
	isAvailable bool,
) (*Slot, error) {
	s := &Slot{
		id:                id,
		tenantID:          tenantID,
		serviceID:         serviceID,
		employeeID:        employeeID,
		date:              date,
		startTime:         startTime,
		endTime:           endTime,
		originalCapacity:  originalCapacity,
		availableCapacity: availableCapacity,
		bookedCount:       bookedCount,
		isAvailable:       isAvailable,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Slot) Validate() error {
	if s.availableCapacity < 0 || s.availableCapacity > s.originalCapacity {
		return ErrInvalidCounters
	}
	if s.bookedCount+s.availableCapacity != s.originalCapacity {
		return ErrInvalidCounters
	}
	return nil
}

// Decrement consumes qty units of capacity. On failure the slot is left untouched.
func (s *Slot) Decrement(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !s.isAvailable {
		return ErrSlotUnavailable
	}
	if qty > s.availableCapacity {
		return &InsufficientCapacityError{Available: s.availableCapacity, Requested: qty}
	}
	s.availableCapacity -= qty
	s.bookedCount += qty
	return nil
}

// Restore returns qty units, saturating at the original capacity.
func (s *Slot) Restore(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	s.bookedCount = max(0, s.bookedCount-qty)
	s.availableCapacity = s.originalCapacity - s.bookedCount
	return nil
}

// Headroom is the capacity left once other sessions' live holds are subtracted.
func (s *Slot) Headroom(locked int) int {
	if !s.isAvailable {
		return 0
	}
	return max(0, s.availableCapacity-locked)
}

func (s *Slot) IsEmployeeBased() bool { return s.employeeID != nil }

func (s *Slot) ID() uuid.UUID          { return s.id }
func (s *Slot) TenantID() uuid.UUID    { return s.tenantID }
func (s *Slot) ServiceID() uuid.UUID   { return s.serviceID }
func (s *Slot) EmployeeID() *uuid.UUID { return s.employeeID }
func (s *Slot) Date() time.Time        { return s.date }
func (s *Slot) StartTime() time.Time   { return s.startTime }
func (s *Slot) EndTime() time.Time     { return s.endTime }
func (s *Slot) OriginalCapacity() int  { return s.originalCapacity }
func (s *Slot) AvailableCapacity() int { return s.availableCapacity }
func (s *Slot) BookedCount() int       { return s.bookedCount }
func (s *Slot) IsAvailable() bool      { return s.isAvailable }
func (s *Slot) SetAvailable(v bool)    { s.isAvailable = v }
