//go:build unit || e2e

package memtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra/memstore"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/ledger"
	"reservation-engine/internal/usecase/locks"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Env wires the booking engine against the in-memory store with a
// controllable clock.
type Env struct {
	Store       *memstore.Store
	UoW         shared.UnitOfWork
	Clock       *clock.MockClock
	LockCfg     config.LockConfig
	Locks       *locks.Manager
	Capacity    *ledger.CapacityLedger
	Entitlement *ledger.EntitlementLedger
	Dispatcher  *RecordingDispatcher
	Commands    commands.BookingCommands
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	store := memstore.NewStore()
	return NewEnvWithUoW(t, store, memstore.NewUoW(store))
}

// NewEnvWithUoW lets a test wrap the store's unit of work, e.g. to inject faults.
func NewEnvWithUoW(t *testing.T, store *memstore.Store, uow shared.UnitOfWork) *Env {
	t.Helper()
	clk := clock.NewMockClock(builder.DefaultStart.Add(-2 * time.Hour))
	cfg := config.NewTestConfig().Lock

	env := &Env{
		Store:       store,
		UoW:         uow,
		Clock:       clk,
		LockCfg:     cfg,
		Locks:       locks.NewManager(uow, clk, cfg),
		Capacity:    ledger.NewCapacityLedger(),
		Entitlement: ledger.NewEntitlementLedger(uow),
		Dispatcher:  &RecordingDispatcher{},
	}
	env.Commands = commands.NewBookingCommands(
		uow, env.Locks, env.Capacity, env.Entitlement,
		shared.DefaultPaymentStatusDeriver(), env.Dispatcher, clk,
	)
	return env
}

func (e *Env) SeedSlot(t *testing.T, b *builder.SlotBuilder) *capacity.Slot {
	t.Helper()
	s, err := b.BuildDomain()
	require.NoError(t, err)
	e.Store.PutSlot(s)
	return s
}

func (e *Env) SeedUsage(t *testing.T, b *builder.UsageBuilder) *entitlement.Usage {
	t.Helper()
	u, err := b.BuildDomain()
	require.NoError(t, err)
	e.Store.PutUsage(u)
	return u
}

func (e *Env) Acquire(t *testing.T, slotID, sessionID uuid.UUID, qty int) *hold.Lock {
	t.Helper()
	l, err := e.Locks.Acquire(context.Background(), slotID, sessionID, qty, 0)
	require.NoError(t, err)
	return l
}

func (e *Env) Slot(t *testing.T, id uuid.UUID) *capacity.Slot {
	t.Helper()
	var out *capacity.Slot
	require.NoError(t, e.UoW.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().Get(ctx, id)
		out = s
		return err
	}))
	return out
}

func (e *Env) Usage(t *testing.T, subscriptionID, serviceID uuid.UUID) *entitlement.Usage {
	t.Helper()
	var out *entitlement.Usage
	require.NoError(t, e.UoW.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Packages().Get(ctx, subscriptionID, serviceID)
		out = u
		return err
	}))
	return out
}

func (e *Env) StoredLocks(t *testing.T, slotID uuid.UUID) []*hold.Lock {
	t.Helper()
	var out []*hold.Lock
	require.NoError(t, e.UoW.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		ls, err := tx.Locks().ListBySlot(ctx, slotID)
		out = ls
		return err
	}))
	return out
}

// RecordingDispatcher captures dispatched events synchronously.
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []shared.BookingEvent
	Err    error
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, event shared.BookingEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.Err
}

func (d *RecordingDispatcher) Events() []shared.BookingEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]shared.BookingEvent(nil), d.events...)
}
