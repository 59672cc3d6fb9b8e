package shared

import "reservation-engine/internal/pkg/errs"

// Error taxonomy shared by the ledgers, the lock manager and the booking
// commands. Causes are attached with errs.Mark so errors.Is works on both.
var (
	ErrInsufficientCapacity  = errs.New("insufficient capacity")
	ErrCapacityContended     = errs.New("capacity contended by active locks")
	ErrAllocationUnavailable = errs.New("no allocation satisfies the request")
	ErrInsufficientRemaining = errs.New("insufficient package balance")
	ErrInvalidLock           = errs.New("invalid reservation lock")
	ErrAlreadyCancelled      = errs.New("booking already cancelled")
	ErrBookingNotFound       = errs.New("booking not found")
	ErrSlotNotFound          = errs.New("slot not found")
	ErrPackageNotFound       = errs.New("package subscription usage not found")
	ErrLockNotFound          = errs.New("reservation lock not found")
	ErrValidation            = errs.New("validation error")
	ErrInvalidStatusChange   = errs.New("invalid booking status transition")
	ErrDatabaseFailure       = errs.New("database operation failed")
)
