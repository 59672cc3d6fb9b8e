//go:build unit || e2e

package builder

import (
	"time"

	"reservation-engine/internal/domain/capacity"

	"github.com/google/uuid"
)

var DefaultStart = time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)

type SlotBuilder struct {
	TenantID   uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID *uuid.UUID
	StartTime  time.Time
	Duration   time.Duration
	Capacity   int
	Booked     int
	Available  bool
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		TenantID:  uuid.New(),
		ServiceID: uuid.New(),
		StartTime: DefaultStart,
		Duration:  time.Hour,
		Capacity:  1,
		Available: true,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) ForEmployee(employeeID uuid.UUID) *SlotBuilder {
	b.EmployeeID = &employeeID
	return b
}

func (b *SlotBuilder) At(start time.Time) *SlotBuilder {
	b.StartTime = start
	return b
}

// Build methods
func (b *SlotBuilder) BuildDomain() (*capacity.Slot, error) {
	s, err := capacity.NewSlot(capacity.NewSlotParams{
		TenantID:   b.TenantID,
		ServiceID:  b.ServiceID,
		EmployeeID: b.EmployeeID,
		StartTime:  b.StartTime,
		EndTime:    b.StartTime.Add(b.Duration),
		Capacity:   b.Capacity,
	})
	if err != nil {
		return nil, err
	}
	if b.Booked > 0 {
		if err := s.Decrement(b.Booked); err != nil {
			return nil, err
		}
	}
	s.SetAvailable(b.Available)
	return s, nil
}
