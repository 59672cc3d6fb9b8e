package pgquery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createBooking = `-- name: CreateBooking :exec
INSERT INTO bookings (id, tenant_id, slot_id, visitor_count, package_subscription_id,
                      package_covered_quantity, paid_quantity, status, payment_status,
                      allocation_policy, customer_name, customer_phone, customer_email,
                      created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

type CreateBookingParams struct {
	ID                     uuid.UUID
	TenantID               uuid.UUID
	SlotID                 uuid.UUID
	VisitorCount           int32
	PackageSubscriptionID  pgtype.UUID
	PackageCoveredQuantity int32
	PaidQuantity           int32
	Status                 string
	PaymentStatus          string
	AllocationPolicy       pgtype.Text
	CustomerName           string
	CustomerPhone          string
	CustomerEmail          string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) error {
	_, err := db.Exec(ctx, createBooking,
		arg.ID,
		arg.TenantID,
		arg.SlotID,
		arg.VisitorCount,
		arg.PackageSubscriptionID,
		arg.PackageCoveredQuantity,
		arg.PaidQuantity,
		arg.Status,
		arg.PaymentStatus,
		arg.AllocationPolicy,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.CustomerEmail,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const createBookingAllocation = `-- name: CreateBookingAllocation :exec
INSERT INTO booking_allocations (booking_id, slot_id, position, quantity)
VALUES ($1, $2, $3, $4)`

func (q *Queries) CreateBookingAllocation(ctx context.Context, db DBTX, arg BookingAllocation) error {
	_, err := db.Exec(ctx, createBookingAllocation, arg.BookingID, arg.SlotID, arg.Position, arg.Quantity)
	return err
}

const bookingColumns = `id, tenant_id, slot_id, visitor_count, package_subscription_id,
       package_covered_quantity, paid_quantity, status, payment_status, allocation_policy,
       customer_name, customer_phone, customer_email, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (Booking, error) {
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.TenantID,
		&i.SlotID,
		&i.VisitorCount,
		&i.PackageSubscriptionID,
		&i.PackageCoveredQuantity,
		&i.PaidQuantity,
		&i.Status,
		&i.PaymentStatus,
		&i.AllocationPolicy,
		&i.CustomerName,
		&i.CustomerPhone,
		&i.CustomerEmail,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getBooking = `-- name: GetBooking :one
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1`

func (q *Queries) GetBooking(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBooking, id))
}

const getBookingForUpdate = `-- name: GetBookingForUpdate :one
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetBookingForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingForUpdate, id))
}

const listBookingAllocations = `-- name: ListBookingAllocations :many
SELECT booking_id, slot_id, position, quantity
FROM booking_allocations
WHERE booking_id = $1
ORDER BY position`

func (q *Queries) ListBookingAllocations(ctx context.Context, db DBTX, bookingID uuid.UUID) ([]BookingAllocation, error) {
	rows, err := db.Query(ctx, listBookingAllocations, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BookingAllocation
	for rows.Next() {
		var i BookingAllocation
		if err := rows.Scan(&i.BookingID, &i.SlotID, &i.Position, &i.Quantity); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Compare-and-set on status: zero rows means another writer moved it first.
const updateBookingStatus = `-- name: UpdateBookingStatus :execrows
UPDATE bookings
SET status         = $2,
    payment_status = $3,
    updated_at     = $4
WHERE id = $1
  AND status = $5`

type UpdateBookingStatusParams struct {
	ID            uuid.UUID
	Status        string
	PaymentStatus string
	UpdatedAt     time.Time
	FromStatus    string
}

func (q *Queries) UpdateBookingStatus(ctx context.Context, db DBTX, arg UpdateBookingStatusParams) (int64, error) {
	result, err := db.Exec(ctx, updateBookingStatus,
		arg.ID,
		arg.Status,
		arg.PaymentStatus,
		arg.UpdatedAt,
		arg.FromStatus,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
