package entitlement

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInsufficientRemaining = errors.New("insufficient package balance")
	ErrInvalidQuantity       = errors.New("package quantity must not be negative")
	ErrInvalidCounters       = errors.New("package usage counters violate invariant")
)

type InsufficientRemainingError struct {
	Remaining int
	Requested int
}

func (e *InsufficientRemainingError) Error() string {
	return fmt.Sprintf("insufficient package balance: remaining=%d requested=%d", e.Remaining, e.Requested)
}

func (e *InsufficientRemainingError) Is(target error) bool {
	return target == ErrInsufficientRemaining
}

// Coverage is how much of a request a package balance can absorb.
type Coverage struct {
	Covered   int
	Remaining int
}

// Uncovered is the part of requested that must be paid for.
func (c Coverage) Uncovered(requested int) int {
	return max(0, requested-c.Covered)
}

// Usage tracks one subscription's balance for one service.
// remaining + used == original, remaining >= 0.
type Usage struct {
	subscriptionID uuid.UUID
	serviceID      uuid.UUID
	original       int
	remaining      int
	used           int
}

func NewUsage(subscriptionID, serviceID uuid.UUID, original int) (*Usage, error) {
	if original < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Usage{
		subscriptionID: subscriptionID,
		serviceID:      serviceID,
		original:       original,
		remaining:      original,
	}, nil
}

func ReconstructUsage(subscriptionID, serviceID uuid.UUID, original, remaining, used int) (*Usage, error) {
	u := &Usage{
		subscriptionID: subscriptionID,
		serviceID:      serviceID,
		original:       original,
		remaining:      remaining,
		used:           used,
	}
	if remaining < 0 || used < 0 || remaining+used != original {
		return nil, ErrInvalidCounters
	}
	return u, nil
}

// Quote is read-only.
func (u *Usage) Quote(requested int) Coverage {
	if requested < 0 {
		requested = 0
	}
	return Coverage{
		Covered:   min(requested, u.remaining),
		Remaining: u.remaining,
	}
}

func (u *Usage) Commit(covered int) error {
	if covered < 0 {
		return ErrInvalidQuantity
	}
	if covered > u.remaining {
		return &InsufficientRemainingError{Remaining: u.remaining, Requested: covered}
	}
	u.remaining -= covered
	u.used += covered
	return nil
}

// Restore reverses a prior commit. It saturates at the original balance so a
// repeated call cannot fabricate entitlement beyond what was purchased.
func (u *Usage) Restore(qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	u.used = max(0, u.used-qty)
	u.remaining = u.original - u.used
	return nil
}

func (u *Usage) SubscriptionID() uuid.UUID { return u.subscriptionID }
func (u *Usage) ServiceID() uuid.UUID      { return u.serviceID }
func (u *Usage) Original() int             { return u.original }
func (u *Usage) Remaining() int            { return u.remaining }
func (u *Usage) Used() int                 { return u.used }
