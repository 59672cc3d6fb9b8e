package converter

import (
	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/pkg/pgconv"
)

func SlotToDomain(row pgquery.Slot) (*capacity.Slot, error) {
	return capacity.ReconstructSlot(
		row.ID,
		row.TenantID,
		row.ServiceID,
		pgconv.UUIDPtrFromPgtype(row.EmployeeID),
		row.SlotDate.Time,
		row.StartTime,
		row.EndTime,
		int(row.OriginalCapacity),
		int(row.AvailableCapacity),
		int(row.BookedCount),
		row.IsAvailable,
	)
}

func SlotToCreateParams(s *capacity.Slot) pgquery.CreateSlotParams {
	return pgquery.CreateSlotParams{
		ID:                s.ID(),
		TenantID:          s.TenantID(),
		ServiceID:         s.ServiceID(),
		EmployeeID:        pgconv.UUIDPtrToPgtype(s.EmployeeID()),
		SlotDate:          pgconv.DateToPgtype(s.Date()),
		StartTime:         s.StartTime(),
		EndTime:           s.EndTime(),
		OriginalCapacity:  pgconv.IntToInt32(s.OriginalCapacity()),
		AvailableCapacity: pgconv.IntToInt32(s.AvailableCapacity()),
		BookedCount:       pgconv.IntToInt32(s.BookedCount()),
		IsAvailable:       s.IsAvailable(),
	}
}

func LockToDomain(row pgquery.ReservationLock) *hold.Lock {
	return hold.ReconstructLock(row.ID, row.SlotID, row.SessionID, int(row.ReservedCapacity), row.LockExpiresAt, row.CreatedAt)
}

func LockToCreateParams(l *hold.Lock) pgquery.CreateLockParams {
	return pgquery.CreateLockParams{
		ID:               l.ID(),
		SlotID:           l.SlotID(),
		SessionID:        l.SessionID(),
		ReservedCapacity: pgconv.IntToInt32(l.ReservedCapacity()),
		LockExpiresAt:    l.ExpiresAt(),
		CreatedAt:        l.CreatedAt(),
	}
}
