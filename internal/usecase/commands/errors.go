package commands

import "reservation-engine/internal/usecase/shared"

// Booking errors. Callers match with errors.Is.
var (
	ErrInsufficientCapacity  = shared.ErrInsufficientCapacity
	ErrCapacityContended     = shared.ErrCapacityContended
	ErrAllocationUnavailable = shared.ErrAllocationUnavailable
	ErrInsufficientRemaining = shared.ErrInsufficientRemaining
	ErrInvalidLock           = shared.ErrInvalidLock
	ErrLockNotFound          = shared.ErrLockNotFound
	ErrAlreadyCancelled      = shared.ErrAlreadyCancelled
	ErrBookingNotFound       = shared.ErrBookingNotFound
	ErrSlotNotFound          = shared.ErrSlotNotFound
	ErrPackageNotFound       = shared.ErrPackageNotFound
	ErrValidation            = shared.ErrValidation
	ErrInvalidStatusChange   = shared.ErrInvalidStatusChange
	ErrDatabaseFailure       = shared.ErrDatabaseFailure
)
