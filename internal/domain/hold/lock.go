package hold

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("reserved capacity must be positive")
	ErrInvalidTTL      = errors.New("lock ttl must be positive")
	ErrExpired         = errors.New("reservation lock expired")
	ErrSessionMismatch = errors.New("reservation lock belongs to another session")
	ErrSlotMismatch    = errors.New("reservation lock is for another slot")
)

// Lock is a session-scoped hold on slot capacity during checkout.
// It is either active, consumed by a booking (row deleted) or expired.
type Lock struct {
	id               uuid.UUID
	slotID           uuid.UUID
	sessionID        uuid.UUID
	reservedCapacity int
	expiresAt        time.Time
	createdAt        time.Time
}

func NewLock(slotID, sessionID uuid.UUID, qty int, ttl time.Duration, now time.Time) (*Lock, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &Lock{
		id:               uuid.New(),
		slotID:           slotID,
		sessionID:        sessionID,
		reservedCapacity: qty,
		expiresAt:        now.Add(ttl),
		createdAt:        now,
	}, nil
}

func ReconstructLock(id, slotID, sessionID uuid.UUID, reserved int, expiresAt, createdAt time.Time) *Lock {
	return &Lock{
		id:               id,
		slotID:           slotID,
		sessionID:        sessionID,
		reservedCapacity: reserved,
		expiresAt:        expiresAt,
		createdAt:        createdAt,
	}
}

// IsExpired treats lock_expires_at <= now as expired.
func (l *Lock) IsExpired(now time.Time) bool {
	return !now.Before(l.expiresAt)
}

// Validate checks that the lock can back a booking for sessionID on slotID.
func (l *Lock) Validate(sessionID, slotID uuid.UUID, now time.Time) error {
	if l.sessionID != sessionID {
		return ErrSessionMismatch
	}
	if l.slotID != slotID {
		return ErrSlotMismatch
	}
	if l.IsExpired(now) {
		return ErrExpired
	}
	return nil
}

// LockedQuantity sums reserved capacity over live locks, skipping the lock
// identified by exclude (uuid.Nil excludes nothing).
func LockedQuantity(locks []*Lock, now time.Time, exclude uuid.UUID) int {
	total := 0
	for _, l := range locks {
		if l.id == exclude || l.IsExpired(now) {
			continue
		}
		total += l.reservedCapacity
	}
	return total
}

func (l *Lock) ID() uuid.UUID         { return l.id }
func (l *Lock) SlotID() uuid.UUID     { return l.slotID }
func (l *Lock) SessionID() uuid.UUID  { return l.sessionID }
func (l *Lock) ReservedCapacity() int { return l.reservedCapacity }
func (l *Lock) ExpiresAt() time.Time  { return l.expiresAt }
func (l *Lock) CreatedAt() time.Time  { return l.createdAt }
