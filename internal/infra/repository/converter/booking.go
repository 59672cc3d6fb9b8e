package converter

import (
	"reservation-engine/internal/domain/allocation"
	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/pkg/pgconv"
)

func BookingToCreateParams(b *booking.Booking) pgquery.CreateBookingParams {
	var policy string
	if p := b.Policy(); p != nil {
		policy = p.String()
	}
	customer := b.Customer()
	return pgquery.CreateBookingParams{
		ID:                     b.ID(),
		TenantID:               b.TenantID(),
		SlotID:                 b.SlotID(),
		VisitorCount:           pgconv.IntToInt32(b.VisitorCount()),
		PackageSubscriptionID:  pgconv.UUIDPtrToPgtype(b.PackageSubscriptionID()),
		PackageCoveredQuantity: pgconv.IntToInt32(b.PackageCoveredQuantity()),
		PaidQuantity:           pgconv.IntToInt32(b.PaidQuantity()),
		Status:                 b.Status().String(),
		PaymentStatus:          b.PaymentStatus().String(),
		AllocationPolicy:       pgconv.TextFromString(policy),
		CustomerName:           customer.Name,
		CustomerPhone:          customer.Phone,
		CustomerEmail:          customer.Email,
		CreatedAt:              b.CreatedAt(),
		UpdatedAt:              b.UpdatedAt(),
	}
}

func AllocationsToParams(b *booking.Booking) []pgquery.BookingAllocation {
	out := make([]pgquery.BookingAllocation, 0, len(b.Allocations()))
	for i, a := range b.Allocations() {
		out = append(out, pgquery.BookingAllocation{
			BookingID: b.ID(),
			SlotID:    a.SlotID,
			Position:  pgconv.IntToInt32(i),
			Quantity:  pgconv.IntToInt32(a.Quantity),
		})
	}
	return out
}

// BookingToDomain expects allocs ordered by position.
func BookingToDomain(row pgquery.Booking, allocs []pgquery.BookingAllocation) *booking.Booking {
	var policy *allocation.Policy
	if row.AllocationPolicy.Valid {
		p := allocation.Policy(row.AllocationPolicy.String)
		policy = &p
	}

	allocations := make([]booking.Allocation, 0, len(allocs))
	for _, a := range allocs {
		allocations = append(allocations, booking.Allocation{SlotID: a.SlotID, Quantity: int(a.Quantity)})
	}

	return booking.ReconstructBooking(
		row.ID,
		row.TenantID,
		row.SlotID,
		int(row.VisitorCount),
		pgconv.UUIDPtrFromPgtype(row.PackageSubscriptionID),
		booking.Split{Covered: int(row.PackageCoveredQuantity), Paid: int(row.PaidQuantity)},
		booking.Status(row.Status),
		booking.PaymentStatus(row.PaymentStatus),
		policy,
		booking.Customer{Name: row.CustomerName, Phone: row.CustomerPhone, Email: row.CustomerEmail},
		allocations,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func UsageToDomain(row pgquery.PackageSubscriptionUsage) (*entitlement.Usage, error) {
	return entitlement.ReconstructUsage(
		row.SubscriptionID,
		row.ServiceID,
		int(row.OriginalQuantity),
		int(row.RemainingQuantity),
		int(row.UsedQuantity),
	)
}

func UsageToParams(u *entitlement.Usage) pgquery.PackageSubscriptionUsage {
	return pgquery.PackageSubscriptionUsage{
		SubscriptionID:    u.SubscriptionID(),
		ServiceID:         u.ServiceID(),
		OriginalQuantity:  pgconv.IntToInt32(u.Original()),
		RemainingQuantity: pgconv.IntToInt32(u.Remaining()),
		UsedQuantity:      pgconv.IntToInt32(u.Used()),
	}
}
