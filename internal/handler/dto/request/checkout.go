package request

import "github.com/google/uuid"

type CreateSessionRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
}

type AcquireLockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
	// TTLSeconds overrides the default hold duration, capped by the server maximum.
	TTLSeconds int `json:"ttl_seconds,omitempty"`
}
