package memstore

import (
	"bytes"
	"context"
	"slices"
	"time"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra"

	"github.com/google/uuid"
)

func errReadOnly() error {
	return infra.WrapRepoErr("write attempted in read-only unit of work", nil, infra.KindReadOnly)
}

type slotRepo struct{ tx *memTx }

func (r *slotRepo) Get(_ context.Context, id uuid.UUID) (*capacity.Slot, error) {
	row, ok := r.tx.store.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	slot, err := row.toDomain()
	if err != nil {
		return nil, infra.WrapRepoErr("stored slot is invalid", err)
	}
	return slot, nil
}

// GetForUpdate needs no row lock: the unit of work already holds the store.
func (r *slotRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*capacity.Slot, error) {
	return r.Get(ctx, id)
}

func (r *slotRepo) UpdateCounters(_ context.Context, slot *capacity.Slot) error {
	if r.tx.readOnly {
		return errReadOnly()
	}
	prev, ok := r.tx.store.slots[slot.ID()]
	if !ok {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	if err := slot.Validate(); err != nil {
		return infra.WrapRepoErr("slot counters rejected", err, infra.KindConflict)
	}

	next := prev
	next.available = slot.AvailableCapacity()
	next.booked = slot.BookedCount()
	r.tx.store.slots[slot.ID()] = next
	r.tx.record(func() { r.tx.store.slots[prev.id] = prev })
	return nil
}

type lockRepo struct{ tx *memTx }

func (r *lockRepo) Create(_ context.Context, l *hold.Lock) error {
	if r.tx.readOnly {
		return errReadOnly()
	}
	if _, exists := r.tx.store.locks[l.ID()]; exists {
		return infra.WrapRepoErr("reservation lock already exists", nil, infra.KindDuplicateKey)
	}
	if _, ok := r.tx.store.slots[l.SlotID()]; !ok {
		return infra.WrapRepoErr("reservation lock references unknown slot", nil, infra.KindForeignKeyViolated)
	}
	r.tx.store.locks[l.ID()] = lockRowFrom(l)
	id := l.ID()
	r.tx.record(func() { delete(r.tx.store.locks, id) })
	return nil
}

func (r *lockRepo) Get(_ context.Context, id uuid.UUID) (*hold.Lock, error) {
	row, ok := r.tx.store.locks[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation lock not found", nil, infra.KindNotFound)
	}
	return row.toDomain(), nil
}

func (r *lockRepo) ListBySlot(_ context.Context, slotID uuid.UUID) ([]*hold.Lock, error) {
	var out []*hold.Lock
	for _, row := range r.tx.store.locks {
		if row.slotID == slotID {
			out = append(out, row.toDomain())
		}
	}
	slices.SortFunc(out, func(a, b *hold.Lock) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return out, nil
}

func (r *lockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.tx.readOnly {
		return errReadOnly()
	}
	row, ok := r.tx.store.locks[id]
	if !ok {
		return infra.WrapRepoErr("reservation lock not found", nil, infra.KindNotFound)
	}
	delete(r.tx.store.locks, id)
	r.tx.record(func() { r.tx.store.locks[id] = row })
	return nil
}

func (r *lockRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if r.tx.readOnly {
		return 0, errReadOnly()
	}
	var deleted int64
	for id, row := range r.tx.store.locks {
		if now.Before(row.expiresAt) {
			continue
		}
		delete(r.tx.store.locks, id)
		r.tx.record(func() { r.tx.store.locks[id] = row })
		deleted++
	}
	return deleted, nil
}

type bookingRepo struct{ tx *memTx }

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if r.tx.readOnly {
		return errReadOnly()
	}
	if _, exists := r.tx.store.bookings[b.ID()]; exists {
		return infra.WrapRepoErr("booking already exists", nil, infra.KindDuplicateKey)
	}
	for _, a := range b.Allocations() {
		if _, ok := r.tx.store.slots[a.SlotID]; !ok {
			return infra.WrapRepoErr("booking allocation references unknown slot", nil, infra.KindForeignKeyViolated)
		}
	}
	r.tx.store.bookings[b.ID()] = bookingRowFrom(b)
	id := b.ID()
	r.tx.record(func() { delete(r.tx.store.bookings, id) })
	return nil
}

func (r *bookingRepo) Get(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, ok := r.tx.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return row.toDomain(), nil
}

func (r *bookingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.Get(ctx, id)
}

func (r *bookingRepo) UpdateStatus(_ context.Context, b *booking.Booking, from booking.Status) (bool, error) {
	if r.tx.readOnly {
		return false, errReadOnly()
	}
	prev, ok := r.tx.store.bookings[b.ID()]
	if !ok {
		return false, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if prev.status != from {
		return false, nil
	}

	next := prev
	next.status = b.Status()
	next.paymentStatus = b.PaymentStatus()
	next.updatedAt = b.UpdatedAt()
	r.tx.store.bookings[b.ID()] = next
	r.tx.record(func() { r.tx.store.bookings[prev.id] = prev })
	return true, nil
}

type usageRepo struct{ tx *memTx }

func (r *usageRepo) Get(_ context.Context, subscriptionID, serviceID uuid.UUID) (*entitlement.Usage, error) {
	row, ok := r.tx.store.usages[usageKey{subscriptionID, serviceID}]
	if !ok {
		return nil, infra.WrapRepoErr("package usage not found", nil, infra.KindNotFound)
	}
	u, err := entitlement.ReconstructUsage(subscriptionID, serviceID, row.original, row.remaining, row.used)
	if err != nil {
		return nil, infra.WrapRepoErr("stored package usage is invalid", err)
	}
	return u, nil
}

func (r *usageRepo) GetForUpdate(ctx context.Context, subscriptionID, serviceID uuid.UUID) (*entitlement.Usage, error) {
	return r.Get(ctx, subscriptionID, serviceID)
}

func (r *usageRepo) Update(_ context.Context, u *entitlement.Usage) error {
	if r.tx.readOnly {
		return errReadOnly()
	}
	key := usageKey{u.SubscriptionID(), u.ServiceID()}
	prev, ok := r.tx.store.usages[key]
	if !ok {
		return infra.WrapRepoErr("package usage not found", nil, infra.KindNotFound)
	}
	r.tx.store.usages[key] = usageRowFrom(u)
	r.tx.record(func() { r.tx.store.usages[key] = prev })
	return nil
}

type catalog struct{ tx *memTx }

func (c *catalog) CandidateUnits(_ context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]*capacity.Slot, error) {
	y, m, d := date.Date()
	var out []*capacity.Slot
	for _, row := range c.tx.store.slots {
		if row.employeeID == nil || row.tenantID != tenantID || row.serviceID != serviceID {
			continue
		}
		if ry, rm, rd := row.date.Date(); ry != y || rm != m || rd != d {
			continue
		}
		slot, err := row.toDomain()
		if err != nil {
			return nil, infra.WrapRepoErr("stored slot is invalid", err)
		}
		out = append(out, slot)
	}
	slices.SortFunc(out, func(a, b *capacity.Slot) int {
		if c := a.StartTime().Compare(b.StartTime()); c != 0 {
			return c
		}
		ai, bi := a.ID(), b.ID()
		return bytes.Compare(ai[:], bi[:])
	})
	return out, nil
}
