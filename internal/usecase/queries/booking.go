package queries

import (
	"context"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewBookingQueries(uow shared.UnitOfWork) BookingQueries {
	return &bookingQueriesImpl{uow: uow}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, shared.ErrBookingNotFound)
			}
			return errs.Mark(err, shared.ErrDatabaseFailure)
		}
		view = ToBookingView(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func ToBookingView(b *booking.Booking) *BookingView {
	allocations := make([]AllocationView, len(b.Allocations()))
	for i, a := range b.Allocations() {
		allocations[i] = AllocationView{SlotID: a.SlotID, Quantity: a.Quantity}
	}

	var policy *string
	if p := b.Policy(); p != nil {
		s := p.String()
		policy = &s
	}

	customer := b.Customer()
	return &BookingView{
		ID:                     b.ID(),
		TenantID:               b.TenantID(),
		SlotID:                 b.SlotID(),
		VisitorCount:           b.VisitorCount(),
		PackageSubscriptionID:  b.PackageSubscriptionID(),
		PackageCoveredQuantity: b.PackageCoveredQuantity(),
		PaidQuantity:           b.PaidQuantity(),
		Status:                 b.Status().String(),
		PaymentStatus:          b.PaymentStatus().String(),
		Policy:                 policy,
		CustomerName:           customer.Name,
		CustomerPhone:          customer.Phone,
		CustomerEmail:          customer.Email,
		Allocations:            allocations,
		CreatedAt:              b.CreatedAt(),
		UpdatedAt:              b.UpdatedAt(),
	}
}
