package repository

import (
	"context"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

//go:generate mockgen -source=slot.go -destination=../../../tests/mock/repository/slot.go -package=repositorymock

type SlotQueries interface {
	GetSlot(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Slot, error)
	GetSlotForUpdate(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Slot, error)
	UpdateSlotCounters(ctx context.Context, db pgquery.DBTX, arg pgquery.UpdateSlotCountersParams) (int64, error)
}

type SlotRepository struct {
	queries SlotQueries
	db      pgquery.DBTX
}

func NewSlotRepository(queries SlotQueries, db pgquery.DBTX) *SlotRepository {
	return &SlotRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SlotRepository) Get(ctx context.Context, id uuid.UUID) (*capacity.Slot, error) {
	row, err := r.queries.GetSlot(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr("failed to get slot", err)
	}
	return r.toDomain(row)
}

// GetForUpdate takes the slot row lock until the surrounding transaction ends.
func (r *SlotRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*capacity.Slot, error) {
	row, err := r.queries.GetSlotForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr("failed to lock slot", err)
	}
	return r.toDomain(row)
}

func (r *SlotRepository) UpdateCounters(ctx context.Context, slot *capacity.Slot) error {
	affected, err := r.queries.UpdateSlotCounters(ctx, r.db, pgquery.UpdateSlotCountersParams{
		ID:                slot.ID(),
		AvailableCapacity: pgconv.IntToInt32(slot.AvailableCapacity()),
		BookedCount:       pgconv.IntToInt32(slot.BookedCount()),
	})
	if err != nil {
		return wrapPgErr("failed to update slot counters", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SlotRepository) toDomain(row pgquery.Slot) (*capacity.Slot, error) {
	slot, err := converter.SlotToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored slot is invalid", err)
	}
	return slot, nil
}
