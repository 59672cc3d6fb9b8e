package memstore

import (
	"context"

	"reservation-engine/internal/usecase/shared"
)

// UoW runs units of work against a Store. Writes register compensating
// actions; a failed unit of work replays them in reverse.
type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	tx := &memTx{store: u.store}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (u *UoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	return fn(ctx, &memTx{store: u.store, readOnly: true})
}

type memTx struct {
	store    *Store
	readOnly bool
	undo     []func()
}

func (t *memTx) record(undo func()) {
	t.undo = append(t.undo, undo)
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) Slots() shared.SlotRepository            { return &slotRepo{tx: t} }
func (t *memTx) Locks() shared.LockRepository            { return &lockRepo{tx: t} }
func (t *memTx) Bookings() shared.BookingRepository      { return &bookingRepo{tx: t} }
func (t *memTx) Packages() shared.PackageUsageRepository { return &usageRepo{tx: t} }
func (t *memTx) Catalog() shared.UnitCatalog             { return &catalog{tx: t} }
