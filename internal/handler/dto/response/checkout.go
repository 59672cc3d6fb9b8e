package response

import (
	"time"

	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SessionResponse struct {
	Token     string    `json:"token"`
	SessionID uuid.UUID `json:"session_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LockResponse struct {
	ID               uuid.UUID `json:"id"`
	SlotID           uuid.UUID `json:"slot_id"`
	ReservedCapacity int       `json:"reserved_capacity"`
	ExpiresAt        time.Time `json:"expires_at"`
}

func FromLock(l *hold.Lock) *LockResponse {
	return &LockResponse{
		ID:               l.ID(),
		SlotID:           l.SlotID(),
		ReservedCapacity: l.ReservedCapacity(),
		ExpiresAt:        l.ExpiresAt(),
	}
}

type SlotResponse struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	ServiceID         uuid.UUID  `json:"service_id"`
	EmployeeID        *uuid.UUID `json:"employee_id,omitempty"`
	Date              time.Time  `json:"date"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	OriginalCapacity  int        `json:"original_capacity"`
	AvailableCapacity int        `json:"available_capacity"`
	BookedCount       int        `json:"booked_count"`
	LockedCapacity    int        `json:"locked_capacity"`
	BookableCapacity  int        `json:"bookable_capacity"`
	IsAvailable       bool       `json:"is_available"`
}

func FromSlotView(v *queries.SlotView) (*SlotResponse, error) {
	var res SlotResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type CoverageResponse struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	Requested      int       `json:"requested"`
	Covered        int       `json:"covered"`
	Uncovered      int       `json:"uncovered"`
	Remaining      int       `json:"remaining"`
}

func FromCoverageView(v *queries.CoverageView) (*CoverageResponse, error) {
	var res CoverageResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}
