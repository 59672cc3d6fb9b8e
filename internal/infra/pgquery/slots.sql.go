package pgquery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const slotColumns = `id, tenant_id, service_id, employee_id, slot_date, start_time, end_time,
       original_capacity, available_capacity, booked_count, is_available`

func scanSlot(row interface{ Scan(...any) error }) (Slot, error) {
	var i Slot
	err := row.Scan(
		&i.ID,
		&i.TenantID,
		&i.ServiceID,
		&i.EmployeeID,
		&i.SlotDate,
		&i.StartTime,
		&i.EndTime,
		&i.OriginalCapacity,
		&i.AvailableCapacity,
		&i.BookedCount,
		&i.IsAvailable,
	)
	return i, err
}

const getSlot = `-- name: GetSlot :one
SELECT ` + slotColumns + `
FROM slots
WHERE id = $1`

func (q *Queries) GetSlot(ctx context.Context, db DBTX, id uuid.UUID) (Slot, error) {
	return scanSlot(db.QueryRow(ctx, getSlot, id))
}

const getSlotForUpdate = `-- name: GetSlotForUpdate :one
SELECT ` + slotColumns + `
FROM slots
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetSlotForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Slot, error) {
	return scanSlot(db.QueryRow(ctx, getSlotForUpdate, id))
}

const updateSlotCounters = `-- name: UpdateSlotCounters :execrows
UPDATE slots
SET available_capacity = $2,
    booked_count       = $3,
    updated_at         = NOW()
WHERE id = $1`

type UpdateSlotCountersParams struct {
	ID                uuid.UUID
	AvailableCapacity int32
	BookedCount       int32
}

func (q *Queries) UpdateSlotCounters(ctx context.Context, db DBTX, arg UpdateSlotCountersParams) (int64, error) {
	result, err := db.Exec(ctx, updateSlotCounters, arg.ID, arg.AvailableCapacity, arg.BookedCount)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listCandidateUnits = `-- name: ListCandidateUnits :many
SELECT ` + slotColumns + `
FROM slots
WHERE tenant_id = $1
  AND service_id = $2
  AND slot_date = $3
  AND employee_id IS NOT NULL
ORDER BY start_time, id`

type ListCandidateUnitsParams struct {
	TenantID  uuid.UUID
	ServiceID uuid.UUID
	SlotDate  pgtype.Date
}

func (q *Queries) ListCandidateUnits(ctx context.Context, db DBTX, arg ListCandidateUnitsParams) ([]Slot, error) {
	rows, err := db.Query(ctx, listCandidateUnits, arg.TenantID, arg.ServiceID, arg.SlotDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Slot
	for rows.Next() {
		i, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSlot = `-- name: CreateSlot :exec
INSERT INTO slots (id, tenant_id, service_id, employee_id, slot_date, start_time, end_time,
                   original_capacity, available_capacity, booked_count, is_available)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

type CreateSlotParams struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	ServiceID         uuid.UUID
	EmployeeID        pgtype.UUID
	SlotDate          pgtype.Date
	StartTime         time.Time
	EndTime           time.Time
	OriginalCapacity  int32
	AvailableCapacity int32
	BookedCount       int32
	IsAvailable       bool
}

func (q *Queries) CreateSlot(ctx context.Context, db DBTX, arg CreateSlotParams) error {
	_, err := db.Exec(ctx, createSlot,
		arg.ID,
		arg.TenantID,
		arg.ServiceID,
		arg.EmployeeID,
		arg.SlotDate,
		arg.StartTime,
		arg.EndTime,
		arg.OriginalCapacity,
		arg.AvailableCapacity,
		arg.BookedCount,
		arg.IsAvailable,
	)
	return err
}
