package pgquery

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Slot struct {
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

type ReservationLock struct {
	ID               uuid.UUID
	SlotID           uuid.UUID
	SessionID        uuid.UUID
	ReservedCapacity int32
	LockExpiresAt    time.Time
	CreatedAt        time.Time
}

type Booking struct {
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

type BookingAllocation struct {
	BookingID uuid.UUID
	SlotID    uuid.UUID
	Position  int32
	Quantity  int32
}

type PackageSubscriptionUsage struct {
	SubscriptionID    uuid.UUID
	ServiceID         uuid.UUID
	OriginalQuantity  int32
	RemainingQuantity int32
	UsedQuantity      int32
}
