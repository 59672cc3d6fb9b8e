package repository

import (
	"context"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type BookingQueries interface {
	CreateBooking(ctx context.Context, db pgquery.DBTX, arg pgquery.CreateBookingParams) error
	CreateBookingAllocation(ctx context.Context, db pgquery.DBTX, arg pgquery.BookingAllocation) error
	GetBooking(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Booking, error)
	GetBookingForUpdate(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Booking, error)
	ListBookingAllocations(ctx context.Context, db pgquery.DBTX, bookingID uuid.UUID) ([]pgquery.BookingAllocation, error)
	UpdateBookingStatus(ctx context.Context, db pgquery.DBTX, arg pgquery.UpdateBookingStatusParams) (int64, error)
}

type BookingRepository struct {
	queries BookingQueries
	db      pgquery.DBTX
}

func NewBookingRepository(queries BookingQueries, db pgquery.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if err := r.queries.CreateBooking(ctx, r.db, converter.BookingToCreateParams(b)); err != nil {
		return wrapPgErr("failed to create booking", err)
	}
	for _, a := range converter.AllocationsToParams(b) {
		if err := r.queries.CreateBookingAllocation(ctx, r.db, a); err != nil {
			return wrapPgErr("failed to create booking allocation", err)
		}
	}
	return nil
}

func (r *BookingRepository) Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBooking(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr("failed to get booking", err)
	}
	return r.withAllocations(ctx, row)
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr("failed to lock booking", err)
	}
	return r.withAllocations(ctx, row)
}

// UpdateStatus writes b's status only if the stored status still equals from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking, from booking.Status) (bool, error) {
	affected, err := r.queries.UpdateBookingStatus(ctx, r.db, pgquery.UpdateBookingStatusParams{
		ID:            b.ID(),
		Status:        b.Status().String(),
		PaymentStatus: b.PaymentStatus().String(),
		UpdatedAt:     b.UpdatedAt(),
		FromStatus:    from.String(),
	})
	if err != nil {
		return false, wrapPgErr("failed to update booking status", err)
	}
	return affected == 1, nil
}

func (r *BookingRepository) withAllocations(ctx context.Context, row pgquery.Booking) (*booking.Booking, error) {
	allocs, err := r.queries.ListBookingAllocations(ctx, r.db, row.ID)
	if err != nil {
		return nil, wrapPgErr("failed to list booking allocations", err)
	}
	if len(allocs) == 0 {
		return nil, infra.WrapRepoErr("booking has no allocations", nil, infra.KindConflict)
	}
	return converter.BookingToDomain(row, allocs), nil
}
