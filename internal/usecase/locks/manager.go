package locks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidTTL = errs.New("lock ttl outside allowed range")

	tracer = otel.Tracer("reservation-engine/usecase/locks")
)

//go:generate mockgen -source=manager.go -destination=../../../tests/mock/locks/manager.go -package=locksmock

// LockCommands is the checkout-facing side of the Manager.
type LockCommands interface {
	Acquire(ctx context.Context, slotID, sessionID uuid.UUID, qty int, ttl time.Duration) (*hold.Lock, error)
	Release(ctx context.Context, lockID, sessionID uuid.UUID) error
}

var _ LockCommands = (*Manager)(nil)

// Manager owns reservation locks: short-lived, session-scoped holds on slot
// capacity that keep checkout from overselling.
type Manager struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.LockConfig
}

func NewManager(uow shared.UnitOfWork, clk clock.Clock, cfg config.LockConfig) *Manager {
	return &Manager{uow: uow, clock: clk, cfg: cfg}
}

// Acquire holds qty units of the slot for sessionID. A zero ttl selects the
// configured default. It fails with ErrCapacityContended when the slot's
// available capacity minus other live locks cannot absorb qty.
func (m *Manager) Acquire(ctx context.Context, slotID, sessionID uuid.UUID, qty int, ttl time.Duration) (lock *hold.Lock, err error) {
	ctx, span := tracer.Start(ctx, "LockManager.Acquire")
	span.SetAttributes(attribute.String("slot.id", slotID.String()), attribute.Int("quantity", qty))
	defer func() { endSpan(span, err) }()

	ttl, err = m.resolveTTL(ttl)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, errs.Mark(hold.ErrInvalidQuantity, shared.ErrValidation)
	}

	err = m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		slot, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, shared.ErrSlotNotFound)
			}
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}

		now := m.clock.Now()
		locked, err := m.LockedQuantity(ctx, tx, slotID, uuid.Nil)
		if err != nil {
			return err
		}

		if headroom := slot.Headroom(locked); headroom < qty {
			return errs.WithDetail(shared.ErrCapacityContended,
				fmt.Sprintf("available=%d locked=%d requested=%d", slot.AvailableCapacity(), locked, qty))
		}

		l, err := hold.NewLock(slotID, sessionID, qty, ttl, now)
		if err != nil {
			return errs.Mark(err, shared.ErrValidation)
		}
		if err := tx.Locks().Create(ctx, l); err != nil {
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}
		lock = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "reservation lock acquired",
		"lock_id", lock.ID(), "slot_id", slotID, "quantity", qty, "expires_at", lock.ExpiresAt())
	return lock, nil
}

// Validate checks inside tx that lockID is a live lock of sessionID on slotID.
// Every failure is marked shared.ErrInvalidLock.
func (m *Manager) Validate(ctx context.Context, tx shared.Tx, lockID, sessionID, slotID uuid.UUID) (*hold.Lock, error) {
	lock, err := tx.Locks().Get(ctx, lockID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(errs.Mark(err, shared.ErrLockNotFound), shared.ErrInvalidLock)
		}
		return nil, errs.Mark(err, shared.ErrDatabaseFailure)
	}

	if err := lock.Validate(sessionID, slotID, m.clock.Now()); err != nil {
		return nil, errs.Mark(err, shared.ErrInvalidLock)
	}
	return lock, nil
}

// LockedQuantity sums live locks on slotID other than exclude.
func (m *Manager) LockedQuantity(ctx context.Context, tx shared.Tx, slotID, exclude uuid.UUID) (int, error) {
	locks, err := tx.Locks().ListBySlot(ctx, slotID)
	if err != nil {
		return 0, errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return hold.LockedQuantity(locks, m.clock.Now(), exclude), nil
}

// Consume removes a lock that has backed a booking. It must run in the same
// unit of work as the booking insert.
func (m *Manager) Consume(ctx context.Context, tx shared.Tx, lockID uuid.UUID) error {
	if err := tx.Locks().Delete(ctx, lockID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(errs.Mark(err, shared.ErrLockNotFound), shared.ErrInvalidLock)
		}
		return errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return nil
}

// Release lets the owning session abandon its checkout early.
func (m *Manager) Release(ctx context.Context, lockID, sessionID uuid.UUID) error {
	return m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		lock, err := tx.Locks().Get(ctx, lockID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(errs.Mark(err, shared.ErrLockNotFound), shared.ErrInvalidLock)
			}
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}
		if lock.SessionID() != sessionID {
			return errs.Mark(hold.ErrSessionMismatch, shared.ErrInvalidLock)
		}
		return m.Consume(ctx, tx, lockID)
	})
}

// SweepExpired deletes every lock whose expiry is at or before now.
func (m *Manager) SweepExpired(ctx context.Context) (deleted int64, err error) {
	ctx, span := tracer.Start(ctx, "LockManager.SweepExpired")
	defer func() {
		span.SetAttributes(attribute.Int64("deleted", deleted))
		endSpan(span, err)
	}()

	err = m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Locks().DeleteExpired(ctx, m.clock.Now())
		if err != nil {
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}
		deleted = n
		return nil
	})
	return deleted, err
}

func (m *Manager) resolveTTL(ttl time.Duration) (time.Duration, error) {
	if ttl == 0 {
		return m.cfg.DefaultTTL, nil
	}
	if ttl < 0 || ttl > m.cfg.MaxTTL {
		return 0, errs.Mark(
			errs.WithDetail(ErrInvalidTTL, fmt.Sprintf("ttl must be within (0, %s]", m.cfg.MaxTTL)),
			shared.ErrValidation,
		)
	}
	return ttl, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
