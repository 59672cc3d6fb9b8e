package repository

import (
	"context"
	"time"

	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type LockQueries interface {
	CreateLock(ctx context.Context, db pgquery.DBTX, arg pgquery.CreateLockParams) error
	GetLock(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.ReservationLock, error)
	ListLocksBySlot(ctx context.Context, db pgquery.DBTX, slotID uuid.UUID) ([]pgquery.ReservationLock, error)
	DeleteLock(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (int64, error)
	DeleteExpiredLocks(ctx context.Context, db pgquery.DBTX, now time.Time) (int64, error)
}

type LockRepository struct {
	queries LockQueries
	db      pgquery.DBTX
}

func NewLockRepository(queries LockQueries, db pgquery.DBTX) *LockRepository {
	return &LockRepository{
		queries: queries,
		db:      db,
	}
}

func (r *LockRepository) Create(ctx context.Context, l *hold.Lock) error {
	if err := r.queries.CreateLock(ctx, r.db, converter.LockToCreateParams(l)); err != nil {
		return wrapPgErr("failed to create reservation lock", err)
	}
	return nil
}

func (r *LockRepository) Get(ctx context.Context, id uuid.UUID) (*hold.Lock, error) {
	row, err := r.queries.GetLock(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr("failed to get reservation lock", err)
	}
	return converter.LockToDomain(row), nil
}

// ListBySlot returns expired rows too; liveness is decided against the clock.
func (r *LockRepository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*hold.Lock, error) {
	rows, err := r.queries.ListLocksBySlot(ctx, r.db, slotID)
	if err != nil {
		return nil, wrapPgErr("failed to list reservation locks", err)
	}
	out := make([]*hold.Lock, 0, len(rows))
	for _, row := range rows {
		out = append(out, converter.LockToDomain(row))
	}
	return out, nil
}

func (r *LockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.queries.DeleteLock(ctx, r.db, id)
	if err != nil {
		return wrapPgErr("failed to delete reservation lock", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("reservation lock not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *LockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.queries.DeleteExpiredLocks(ctx, r.db, now)
	if err != nil {
		return 0, wrapPgErr("failed to delete expired reservation locks", err)
	}
	return n, nil
}
