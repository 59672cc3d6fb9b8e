package shared

import (
	"context"
	"time"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/domain/hold"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one unit of work. Row locks taken through
// the ForUpdate methods are held until the unit of work ends.
type Tx interface {
	Slots() SlotRepository
	Locks() LockRepository
	Bookings() BookingRepository
	Packages() PackageUsageRepository
	Catalog() UnitCatalog
}

type SlotRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*capacity.Slot, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*capacity.Slot, error)
	UpdateCounters(ctx context.Context, slot *capacity.Slot) error
}

type LockRepository interface {
	Create(ctx context.Context, lock *hold.Lock) error
	Get(ctx context.Context, id uuid.UUID) (*hold.Lock, error)
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*hold.Lock, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type BookingRepository interface {
	// Create persists the booking together with its allocations.
	Create(ctx context.Context, b *booking.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// UpdateStatus writes b's status only while the stored status is still from.
	// It reports whether a row was updated.
	UpdateStatus(ctx context.Context, b *booking.Booking, from booking.Status) (bool, error)
}

type PackageUsageRepository interface {
	Get(ctx context.Context, subscriptionID, serviceID uuid.UUID) (*entitlement.Usage, error)
	GetForUpdate(ctx context.Context, subscriptionID, serviceID uuid.UUID) (*entitlement.Usage, error)
	Update(ctx context.Context, usage *entitlement.Usage) error
}

// UnitCatalog lists the employee-owned slots that can serve a service on a day.
// Results are unlocked reads.
type UnitCatalog interface {
	CandidateUnits(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]*capacity.Slot, error)
}
