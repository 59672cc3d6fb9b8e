package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"reservation-engine/internal/domain/allocation"
	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CreateBookingParams struct {
	TenantID     uuid.UUID `validate:"required"`
	SessionID    uuid.UUID `validate:"required_with=LockID"`
	SlotID       uuid.UUID `validate:"required"`
	VisitorCount int       `validate:"gt=0"`

	// LockID is optional. Without a lock the booking competes with every
	// live lock on the slot, as a walk-in booking does.
	LockID *uuid.UUID

	PackageSubscriptionID *uuid.UUID
	// ExpectedCoveredQuantity is the coverage the customer was quoted. When the
	// locked balance covers less, the booking fails instead of charging more.
	ExpectedCoveredQuantity *int `validate:"omitempty,gte=0,ltefield=VisitorCount"`

	// Employee selects employee-mode allocation around SlotID. Bookings on
	// an employee-owned slot without it use DefaultEmployeePolicy.
	Employee *EmployeeAllocation

	Customer CustomerParams
}

const DefaultEmployeePolicy = allocation.PolicyParallel

type EmployeeAllocation struct {
	Policy allocation.Policy `validate:"required,oneof=parallel consecutive"`
}

type CustomerParams struct {
	Name  string `validate:"required,max=200"`
	Phone string `validate:"omitempty,max=32"`
	Email string `validate:"omitempty,email,max=254"`
}

func (c CustomerParams) toDomain() booking.Customer {
	return booking.Customer{Name: c.Name, Phone: c.Phone, Email: c.Email}
}

type TransitionStatusParams struct {
	BookingID uuid.UUID      `validate:"required"`
	Status    booking.Status `validate:"required,oneof=pending confirmed checked_in completed cancelled"`
}

type paramValidator struct {
	validate *validator.Validate
}

func newParamValidator() *paramValidator {
	return &paramValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *paramValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs.Mark(err, ErrValidation)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return errs.Mark(errs.WithDetail(err, strings.Join(fields, "; ")), ErrValidation)
}

func derefInt(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func anchorWindow(start, end time.Time) *allocation.Window {
	return &allocation.Window{Start: start, End: end}
}
