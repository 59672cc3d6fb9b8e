package queries

import (
	"context"

	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=slot.go -destination=../../../tests/mock/queries/slot.go -package=queriesmock

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
}

type slotQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSlotQueries(uow shared.UnitOfWork, clock clock.Clock) SlotQueries {
	return &slotQueriesImpl{uow: uow, clock: clock}
}

func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	var view *SlotView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, shared.ErrSlotNotFound)
			}
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}

		locks, err := tx.Locks().ListBySlot(ctx, id)
		if err != nil {
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}
		locked := hold.LockedQuantity(locks, q.clock.Now(), uuid.Nil)

		view = &SlotView{
			ID:                s.ID(),
			TenantID:          s.TenantID(),
			ServiceID:         s.ServiceID(),
			EmployeeID:        s.EmployeeID(),
			Date:              s.Date(),
			StartTime:         s.StartTime(),
			EndTime:           s.EndTime(),
			OriginalCapacity:  s.OriginalCapacity(),
			AvailableCapacity: s.AvailableCapacity(),
			BookedCount:       s.BookedCount(),
			LockedCapacity:    locked,
			BookableCapacity:  s.Headroom(locked),
			IsAvailable:       s.IsAvailable(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
