package api

import (
	"net/http"
	"strings"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: a missing lock is also an invalid lock.
var errorMappings = []errorMapping{
	{shared.ErrValidation, http.StatusBadRequest, httperr.CodeInvalidRequest, "Invalid request"},
	{shared.ErrLockNotFound, http.StatusGone, httperr.CodeLockGone, "Reservation lock not found"},
	{shared.ErrInvalidLock, http.StatusConflict, httperr.CodeLockInvalid, "Reservation lock is not valid"},
	{shared.ErrSlotNotFound, http.StatusNotFound, httperr.CodeNotFound, "Slot not found"},
	{shared.ErrBookingNotFound, http.StatusNotFound, httperr.CodeNotFound, "Booking not found"},
	{shared.ErrPackageNotFound, http.StatusNotFound, httperr.CodeNotFound, "Package subscription not found"},
	{shared.ErrInsufficientCapacity, http.StatusConflict, httperr.CodeInsufficientCapacity, "Insufficient capacity"},
	{shared.ErrCapacityContended, http.StatusConflict, httperr.CodeCapacityContended, "Capacity is held by other checkouts"},
	{shared.ErrAllocationUnavailable, http.StatusConflict, httperr.CodeAllocationUnavailable, "No employee allocation available"},
	{shared.ErrInsufficientRemaining, http.StatusConflict, httperr.CodeInsufficientBalance, "Insufficient package balance"},
	{shared.ErrInvalidStatusChange, http.StatusConflict, httperr.CodeInvalidTransition, "Invalid status transition"},
}

type counterDetail struct {
	Available *int `json:"available,omitempty"`
	Remaining *int `json:"remaining,omitempty"`
	Requested int  `json:"requested"`
}

// abortWithUsecaseError maps a usecase error to its HTTP status. Unknown
// errors become 500 without leaking the cause.
func abortWithUsecaseError(c *gin.Context, err error, fallback string) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithCode(c, m.status, m.code, err, m.message, errorDetail(err))
			return
		}
	}
	httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, fallback, nil)
}

func errorDetail(err error) any {
	var capErr *capacity.InsufficientCapacityError
	if errs.As(err, &capErr) {
		return counterDetail{Available: &capErr.Available, Requested: capErr.Requested}
	}
	var remErr *entitlement.InsufficientRemainingError
	if errs.As(err, &remErr) {
		return counterDetail{Remaining: &remErr.Remaining, Requested: remErr.Requested}
	}
	if details := errs.Details(err); len(details) > 0 {
		return gin.H{"reason": strings.Join(details, "; ")}
	}
	return nil
}

var errInvalidQuantity = errs.New("quantity must be a non-negative integer")
