package memstore

import (
	"sync"
	"time"

	"reservation-engine/internal/domain/allocation"
	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/domain/hold"

	"github.com/google/uuid"
)

// Store keeps every table in process memory. Units of work are serialized by
// mu, which stands in for row-level locking in a single process.
type Store struct {
	mu       sync.RWMutex
	slots    map[uuid.UUID]slotRow
	locks    map[uuid.UUID]lockRow
	bookings map[uuid.UUID]bookingRow
	usages   map[usageKey]usageRow
}

func NewStore() *Store {
	return &Store{
		slots:    make(map[uuid.UUID]slotRow),
		locks:    make(map[uuid.UUID]lockRow),
		bookings: make(map[uuid.UUID]bookingRow),
		usages:   make(map[usageKey]usageRow),
	}
}

// PutSlot inserts or replaces a slot. Used for seeding.
func (s *Store) PutSlot(slot *capacity.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot.ID()] = slotRowFrom(slot)
}

// PutUsage inserts or replaces a package usage row. Used for seeding.
func (s *Store) PutUsage(u *entitlement.Usage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages[usageKey{u.SubscriptionID(), u.ServiceID()}] = usageRowFrom(u)
}

type slotRow struct {
	id, tenantID, serviceID uuid.UUID
	employeeID              *uuid.UUID
	date, start, end        time.Time
	original, available     int
	booked                  int
	isAvailable             bool
}

func slotRowFrom(s *capacity.Slot) slotRow {
	return slotRow{
		id:          s.ID(),
		tenantID:    s.TenantID(),
		serviceID:   s.ServiceID(),
		employeeID:  clonePtr(s.EmployeeID()),
		date:        s.Date(),
		start:       s.StartTime(),
		end:         s.EndTime(),
		original:    s.OriginalCapacity(),
		available:   s.AvailableCapacity(),
		booked:      s.BookedCount(),
		isAvailable: s.IsAvailable(),
	}
}

func (r slotRow) toDomain() (*capacity.Slot, error) {
	return capacity.ReconstructSlot(r.id, r.tenantID, r.serviceID, clonePtr(r.employeeID),
		r.date, r.start, r.end, r.original, r.available, r.booked, r.isAvailable)
}

type lockRow struct {
	id, slotID, sessionID uuid.UUID
	reserved              int
	expiresAt, createdAt  time.Time
}

func lockRowFrom(l *hold.Lock) lockRow {
	return lockRow{
		id:        l.ID(),
		slotID:    l.SlotID(),
		sessionID: l.SessionID(),
		reserved:  l.ReservedCapacity(),
		expiresAt: l.ExpiresAt(),
		createdAt: l.CreatedAt(),
	}
}

func (r lockRow) toDomain() *hold.Lock {
	return hold.ReconstructLock(r.id, r.slotID, r.sessionID, r.reserved, r.expiresAt, r.createdAt)
}

type bookingRow struct {
	id, tenantID, slotID  uuid.UUID
	visitorCount          int
	packageSubscriptionID *uuid.UUID
	split                 booking.Split
	status                booking.Status
	paymentStatus         booking.PaymentStatus
	policy                *allocation.Policy
	customer              booking.Customer
	allocations           []booking.Allocation
	createdAt, updatedAt  time.Time
}

func bookingRowFrom(b *booking.Booking) bookingRow {
	return bookingRow{
		id:                    b.ID(),
		tenantID:              b.TenantID(),
		slotID:                b.SlotID(),
		visitorCount:          b.VisitorCount(),
		packageSubscriptionID: clonePtr(b.PackageSubscriptionID()),
		split:                 b.Split(),
		status:                b.Status(),
		paymentStatus:         b.PaymentStatus(),
		policy:                clonePtr(b.Policy()),
		customer:              b.Customer(),
		allocations:           append([]booking.Allocation(nil), b.Allocations()...),
		createdAt:             b.CreatedAt(),
		updatedAt:             b.UpdatedAt(),
	}
}

func (r bookingRow) toDomain() *booking.Booking {
	return booking.ReconstructBooking(r.id, r.tenantID, r.slotID, r.visitorCount,
		clonePtr(r.packageSubscriptionID), r.split, r.status, r.paymentStatus, clonePtr(r.policy),
		r.customer, append([]booking.Allocation(nil), r.allocations...), r.createdAt, r.updatedAt)
}

type usageKey struct {
	subscriptionID, serviceID uuid.UUID
}

type usageRow struct {
	original, remaining, used int
}

func usageRowFrom(u *entitlement.Usage) usageRow {
	return usageRow{original: u.Original(), remaining: u.Remaining(), used: u.Used()}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
