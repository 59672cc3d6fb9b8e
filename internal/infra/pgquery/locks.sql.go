package pgquery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createLock = `-- name: CreateLock :exec
INSERT INTO reservation_locks (id, slot_id, session_id, reserved_capacity, lock_expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

type CreateLockParams struct {
	ID               uuid.UUID
	SlotID           uuid.UUID
	SessionID        uuid.UUID
	ReservedCapacity int32
	LockExpiresAt    time.Time
	CreatedAt        time.Time
}

func (q *Queries) CreateLock(ctx context.Context, db DBTX, arg CreateLockParams) error {
	_, err := db.Exec(ctx, createLock,
		arg.ID,
		arg.SlotID,
		arg.SessionID,
		arg.ReservedCapacity,
		arg.LockExpiresAt,
		arg.CreatedAt,
	)
	return err
}

const getLock = `-- name: GetLock :one
SELECT id, slot_id, session_id, reserved_capacity, lock_expires_at, created_at
FROM reservation_locks
WHERE id = $1`

func (q *Queries) GetLock(ctx context.Context, db DBTX, id uuid.UUID) (ReservationLock, error) {
	row := db.QueryRow(ctx, getLock, id)
	var i ReservationLock
	err := row.Scan(
		&i.ID,
		&i.SlotID,
		&i.SessionID,
		&i.ReservedCapacity,
		&i.LockExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const listLocksBySlot = `-- name: ListLocksBySlot :many
SELECT id, slot_id, session_id, reserved_capacity, lock_expires_at, created_at
FROM reservation_locks
WHERE slot_id = $1
ORDER BY created_at, id`

func (q *Queries) ListLocksBySlot(ctx context.Context, db DBTX, slotID uuid.UUID) ([]ReservationLock, error) {
	rows, err := db.Query(ctx, listLocksBySlot, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReservationLock
	for rows.Next() {
		var i ReservationLock
		if err := rows.Scan(
			&i.ID,
			&i.SlotID,
			&i.SessionID,
			&i.ReservedCapacity,
			&i.LockExpiresAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteLock = `-- name: DeleteLock :execrows
DELETE FROM reservation_locks
WHERE id = $1`

func (q *Queries) DeleteLock(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	result, err := db.Exec(ctx, deleteLock, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteExpiredLocks = `-- name: DeleteExpiredLocks :execrows
DELETE FROM reservation_locks
WHERE lock_expires_at <= $1`

func (q *Queries) DeleteExpiredLocks(ctx context.Context, db DBTX, now time.Time) (int64, error) {
	result, err := db.Exec(ctx, deleteExpiredLocks, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
