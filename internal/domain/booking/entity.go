package booking

import (
	"errors"
	"strings"
	"time"

	"reservation-engine/internal/domain/allocation"

	"github.com/google/uuid"
)

var (
	ErrInvalidVisitorCount     = errors.New("visitor count must be positive")
	ErrInvalidSplit            = errors.New("package split does not add up to visitor count")
	ErrNoAllocations           = errors.New("booking must consume at least one slot")
	ErrAllocationMismatch      = errors.New("allocated quantity does not match visitor count")
	ErrAlreadyCancelled        = errors.New("booking is already cancelled")
	ErrNotCancellable          = errors.New("booking can no longer be cancelled")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrInvalidStatus           = errors.New("invalid booking status")
)

// Split divides visitors between package coverage and paid tickets.
type Split struct {
	Covered int
	Paid    int
}

func NewSplit(visitorCount, covered int) (Split, error) {
	if visitorCount <= 0 {
		return Split{}, ErrInvalidVisitorCount
	}
	if covered < 0 || covered > visitorCount {
		return Split{}, ErrInvalidSplit
	}
	return Split{Covered: covered, Paid: visitorCount - covered}, nil
}

func (s Split) Total() int {
	return s.Covered + s.Paid
}

// Allocation is the capacity one booking took from one slot.
type Allocation struct {
	SlotID   uuid.UUID
	Quantity int
}

type Customer struct {
	Name  string
	Phone string
	Email string
}

func (c Customer) Normalize() Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
	}
}

type Booking struct {
	id                    uuid.UUID
	tenantID              uuid.UUID
	slotID                uuid.UUID
	visitorCount          int
	packageSubscriptionID *uuid.UUID
	split                 Split
	status                Status
	paymentStatus         PaymentStatus
	policy                *allocation.Policy
	customer              Customer
	allocations           []Allocation
	createdAt             time.Time
	updatedAt             time.Time
}

type NewBookingParams struct {
	TenantID              uuid.UUID
	PackageSubscriptionID *uuid.UUID
	Split                 Split
	Policy                *allocation.Policy
	Customer              Customer
	Allocations           []Allocation
	// PaymentStatus defaults to DerivePaymentStatus(Split.Paid) when empty.
	PaymentStatus PaymentStatus
}

// NewBooking builds a booking whose primary slot is the first allocation.
func NewBooking(p NewBookingParams, now time.Time) (*Booking, error) {
	if len(p.Allocations) == 0 {
		return nil, ErrNoAllocations
	}
	visitors := p.Split.Total()
	if visitors <= 0 || p.Split.Covered < 0 || p.Split.Paid < 0 {
		return nil, ErrInvalidSplit
	}
	allocated := 0
	for _, a := range p.Allocations {
		if a.Quantity <= 0 {
			return nil, ErrAllocationMismatch
		}
		allocated += a.Quantity
	}
	if allocated != visitors {
		return nil, ErrAllocationMismatch
	}
	if p.Split.Covered > 0 && p.PackageSubscriptionID == nil {
		return nil, ErrInvalidSplit
	}

	status := StatusPending
	paymentStatus := p.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = DerivePaymentStatus(p.Split.Paid)
	}
	if paymentStatus == PaymentPaid {
		status = StatusConfirmed
	}

	allocations := make([]Allocation, len(p.Allocations))
	copy(allocations, p.Allocations)

	return &Booking{
		id:                    uuid.New(),
		tenantID:              p.TenantID,
		slotID:                allocations[0].SlotID,
		visitorCount:          visitors,
		packageSubscriptionID: p.PackageSubscriptionID,
		split:                 p.Split,
		status:                status,
		paymentStatus:         paymentStatus,
		policy:                p.Policy,
		customer:              p.Customer.Normalize(),
		allocations:           allocations,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

func ReconstructBooking(
	id, tenantID, slotID uuid.UUID,
	visitorCount int,
	packageSubscriptionID *uuid.UUID,
	split Split,
	status Status,
	paymentStatus PaymentStatus,
	policy *allocation.Policy,
	customer Customer,
	allocations []Allocation,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                    id,
		tenantID:              tenantID,
		slotID:                slotID,
		visitorCount:          visitorCount,
		packageSubscriptionID: packageSubscriptionID,
		split:                 split,
		status:                status,
		paymentStatus:         paymentStatus,
		policy:                policy,
		customer:              customer,
		allocations:           allocations,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// Cancel moves the booking to cancelled. Callers restore ledgers only when it
// returns nil, which makes the restore fire at most once.
func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !b.status.IsCancellable() {
		return ErrNotCancellable
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

func (b *Booking) TransitionTo(to Status, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if to == StatusCancelled {
		return b.Cancel(now)
	}
	if !b.status.CanTransitionTo(to) {
		return ErrInvalidStatusTransition
	}
	b.status = to
	if to == StatusConfirmed {
		// confirmation means the outstanding amount was settled
		b.paymentStatus = PaymentPaid
	}
	b.updatedAt = now
	return nil
}

func (b *Booking) IsCancelled() bool { return b.status == StatusCancelled }

func (b *Booking) ID() uuid.UUID                     { return b.id }
func (b *Booking) TenantID() uuid.UUID               { return b.tenantID }
func (b *Booking) SlotID() uuid.UUID                 { return b.slotID }
func (b *Booking) VisitorCount() int                 { return b.visitorCount }
func (b *Booking) PackageSubscriptionID() *uuid.UUID { return b.packageSubscriptionID }
func (b *Booking) Split() Split                      { return b.split }
func (b *Booking) PackageCoveredQuantity() int       { return b.split.Covered }
func (b *Booking) PaidQuantity() int                 { return b.split.Paid }
func (b *Booking) Status() Status                    { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus      { return b.paymentStatus }
func (b *Booking) Policy() *allocation.Policy        { return b.policy }
func (b *Booking) Customer() Customer                { return b.customer }
func (b *Booking) Allocations() []Allocation         { return b.allocations }
func (b *Booking) CreatedAt() time.Time              { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time              { return b.updatedAt }
