package ledger

import (
	"context"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CapacityLedger is the only writer of slot counters. Every method runs inside
// the caller's unit of work and takes the slot row lock.
type CapacityLedger struct{}

func NewCapacityLedger() *CapacityLedger {
	return &CapacityLedger{}
}

// TryDecrement books qty units on the slot or fails without touching it.
func (l *CapacityLedger) TryDecrement(ctx context.Context, tx shared.Tx, slotID uuid.UUID, qty int) (err error) {
	ctx, span := tracer.Start(ctx, "CapacityLedger.TryDecrement")
	span.SetAttributes(attribute.String("slot.id", slotID.String()), attribute.Int("quantity", qty))
	defer func() { endSpan(span, err) }()

	if qty <= 0 {
		return errs.Mark(capacity.ErrInvalidQuantity, shared.ErrValidation)
	}

	slot, err := lockSlot(ctx, tx, slotID)
	if err != nil {
		return err
	}

	if err := slot.Decrement(qty); err != nil {
		return classifySlotErr(err)
	}

	if err := tx.Slots().UpdateCounters(ctx, slot); err != nil {
		return errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return nil
}

// Restore returns qty units to the slot, saturating at the original capacity.
func (l *CapacityLedger) Restore(ctx context.Context, tx shared.Tx, slotID uuid.UUID, qty int) (err error) {
	ctx, span := tracer.Start(ctx, "CapacityLedger.Restore")
	span.SetAttributes(attribute.String("slot.id", slotID.String()), attribute.Int("quantity", qty))
	defer func() { endSpan(span, err) }()

	slot, err := lockSlot(ctx, tx, slotID)
	if err != nil {
		return err
	}

	if err := slot.Restore(qty); err != nil {
		return errs.Mark(err, shared.ErrValidation)
	}

	if err := tx.Slots().UpdateCounters(ctx, slot); err != nil {
		return errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return nil
}

func lockSlot(ctx context.Context, tx shared.Tx, slotID uuid.UUID) (*capacity.Slot, error) {
	slot, err := tx.Slots().GetForUpdate(ctx, slotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, shared.ErrSlotNotFound)
		}
		return nil, errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return slot, nil
}

func classifySlotErr(err error) error {
	switch {
	case errs.Is(err, capacity.ErrInsufficientCapacity), errs.Is(err, capacity.ErrSlotUnavailable):
		return errs.Mark(err, shared.ErrInsufficientCapacity)
	default:
		return errs.Mark(err, shared.ErrValidation)
	}
}
