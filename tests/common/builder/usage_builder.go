//go:build unit || e2e

package builder

import (
	"reservation-engine/internal/domain/entitlement"

	"github.com/google/uuid"
)

type UsageBuilder struct {
	SubscriptionID uuid.UUID
	ServiceID      uuid.UUID
	Original       int
	Used           int
}

func NewUsageBuilder(serviceID uuid.UUID) *UsageBuilder {
	return &UsageBuilder{
		SubscriptionID: uuid.New(),
		ServiceID:      serviceID,
		Original:       5,
	}
}

func (b *UsageBuilder) With(mutate func(*UsageBuilder)) *UsageBuilder {
	mutate(b)
	return b
}

func (b *UsageBuilder) BuildDomain() (*entitlement.Usage, error) {
	return entitlement.ReconstructUsage(b.SubscriptionID, b.ServiceID, b.Original, b.Original-b.Used, b.Used)
}
