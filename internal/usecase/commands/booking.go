package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"reservation-engine/internal/domain/allocation"
	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/ledger"
	"reservation-engine/internal/usecase/locks"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("reservation-engine/usecase/commands")

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

type BookingCommands interface {
	CreateBooking(ctx context.Context, p CreateBookingParams) (*booking.Booking, error)
	// CancelBooking returns the booking together with ErrAlreadyCancelled when
	// it was cancelled before; callers may treat that as success.
	CancelBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
	TransitionStatus(ctx context.Context, p TransitionStatusParams) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	locks       *locks.Manager
	capacity    *ledger.CapacityLedger
	entitlement *ledger.EntitlementLedger
	payments    shared.PaymentStatusDeriver
	dispatcher  shared.Dispatcher
	clock       clock.Clock
	validator   *paramValidator
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	lockManager *locks.Manager,
	capacityLedger *ledger.CapacityLedger,
	entitlementLedger *ledger.EntitlementLedger,
	payments shared.PaymentStatusDeriver,
	dispatcher shared.Dispatcher,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:         uow,
		locks:       lockManager,
		capacity:    capacityLedger,
		entitlement: entitlementLedger,
		payments:    payments,
		dispatcher:  dispatcher,
		clock:       clock,
		validator:   newParamValidator(),
	}
}

func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, p CreateBookingParams) (created *booking.Booking, err error) {
	ctx, span := tracer.Start(ctx, "BookingCommands.CreateBooking")
	span.SetAttributes(attribute.String("slot.id", p.SlotID.String()), attribute.Int("visitors", p.VisitorCount))
	defer func() { endSpan(span, err) }()

	if err := c.validator.Struct(p); err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.createInTx(ctx, tx, p)
		if err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", created.ID(),
		"slot_id", created.SlotID(),
		"visitors", created.VisitorCount(),
		"package_covered", created.PackageCoveredQuantity(),
		"paid", created.PaidQuantity())

	c.publish(ctx, shared.NewBookingEvent(shared.EventBookingCreated, created, c.clock.Now()))
	return created, nil
}

// createInTx runs every booking step against one unit of work. Row locks are
// taken slot rows first (ascending ID), then the package usage row.
func (c *bookingCommandsImpl) createInTx(ctx context.Context, tx shared.Tx, p CreateBookingParams) (*booking.Booking, error) {
	var lock *hold.Lock
	if p.LockID != nil {
		l, err := c.locks.Validate(ctx, tx, *p.LockID, p.SessionID, p.SlotID)
		if err != nil {
			return nil, err
		}
		lock = l
	}
	own := ownLockID(lock)

	anchor, err := tx.Slots().Get(ctx, p.SlotID)
	if err != nil {
		return nil, slotErr(err)
	}
	if anchor.TenantID() != p.TenantID {
		// another tenant's slot is reported as missing
		return nil, errs.Mark(
			errs.WithDetail(errs.New("slot belongs to another tenant"), "slot_id="+p.SlotID.String()),
			ErrSlotNotFound,
		)
	}

	var (
		allocations []booking.Allocation
		policy      *allocation.Policy
	)
	switch {
	case p.Employee != nil:
		policy = &p.Employee.Policy
	case anchor.IsEmployeeBased():
		def := DefaultEmployeePolicy
		policy = &def
	}

	if policy == nil {
		if lock != nil && p.VisitorCount > lock.ReservedCapacity() {
			return nil, errs.Mark(
				errs.WithDetail(errs.New("visitor count exceeds locked capacity"),
					fmt.Sprintf("locked=%d requested=%d", lock.ReservedCapacity(), p.VisitorCount)),
				ErrInvalidLock,
			)
		}
		slot, err := c.checkSlotHeadroom(ctx, tx, p.SlotID, own, p.VisitorCount)
		if err != nil {
			return nil, err
		}
		allocations = []booking.Allocation{{SlotID: slot.ID(), Quantity: p.VisitorCount}}
	} else {
		units, err := c.allocateUnits(ctx, tx, p, anchor, *policy, own)
		if err != nil {
			return nil, err
		}
		allocations = units
	}

	split, err := c.commitPackage(ctx, tx, p, anchor.ServiceID())
	if err != nil {
		return nil, err
	}

	for _, a := range sortedBySlot(allocations) {
		if err := c.capacity.TryDecrement(ctx, tx, a.SlotID, a.Quantity); err != nil {
			return nil, err
		}
	}

	b, err := booking.NewBooking(booking.NewBookingParams{
		TenantID:              p.TenantID,
		PackageSubscriptionID: p.PackageSubscriptionID,
		Split:                 split,
		Policy:                policy,
		Customer:              p.Customer.toDomain(),
		Allocations:           allocations,
		PaymentStatus:         c.payments.Derive(split.Paid),
	}, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	if err := tx.Bookings().Create(ctx, b); err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailure)
	}

	if lock != nil {
		if err := c.locks.Consume(ctx, tx, lock.ID()); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ownLockID is the lock whose quantity the booking may use; uuid.Nil makes
// every live lock count against the booking.
func ownLockID(l *hold.Lock) uuid.UUID {
	if l == nil {
		return uuid.Nil
	}
	return l.ID()
}

// checkSlotHeadroom locks the slot row and checks that, net of live locks
// other than own, qty units can still be booked.
func (c *bookingCommandsImpl) checkSlotHeadroom(ctx context.Context, tx shared.Tx, slotID, own uuid.UUID, qty int) (*capacity.Slot, error) {
	slot, err := tx.Slots().GetForUpdate(ctx, slotID)
	if err != nil {
		return nil, slotErr(err)
	}

	others, err := c.locks.LockedQuantity(ctx, tx, slotID, own)
	if err != nil {
		return nil, err
	}

	if headroom := slot.Headroom(others); headroom < qty {
		return nil, errs.Mark(
			&capacity.InsufficientCapacityError{Available: headroom, Requested: qty},
			ErrInsufficientCapacity,
		)
	}
	return slot, nil
}

// allocateUnits distributes the visitors over employee-owned units around
// the anchor slot. Each unit serves one visitor. A checkout lock only holds
// the anchor slot, so every chosen unit is re-checked under its row lock.
func (c *bookingCommandsImpl) allocateUnits(ctx context.Context, tx shared.Tx, p CreateBookingParams, anchor *capacity.Slot, policy allocation.Policy, own uuid.UUID) ([]booking.Allocation, error) {
	candidates, err := tx.Catalog().CandidateUnits(ctx, anchor.TenantID(), anchor.ServiceID(), anchor.Date())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailure)
	}

	units := make([]allocation.Unit, 0, len(candidates))
	for _, s := range candidates {
		others, err := c.locks.LockedQuantity(ctx, tx, s.ID(), own)
		if err != nil {
			return nil, err
		}
		units = append(units, allocation.Unit{
			UnitID:            s.ID(),
			Start:             s.StartTime(),
			End:               s.EndTime(),
			OwnerID:           *s.EmployeeID(),
			AvailableCapacity: s.Headroom(others),
		})
	}

	result, err := allocation.Allocate(allocation.Request{
		Units:    units,
		Quantity: p.VisitorCount,
		Anchor:   anchorWindow(anchor.StartTime(), anchor.EndTime()),
		Policy:   policy,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	if !result.Satisfied {
		return nil, errs.WithDetail(ErrAllocationUnavailable,
			fmt.Sprintf("policy=%s requested=%d allocatable=%d", policy, p.VisitorCount, len(result.Units)))
	}

	allocations := make([]booking.Allocation, len(result.Units))
	for i, u := range result.Units {
		allocations[i] = booking.Allocation{SlotID: u.UnitID, Quantity: 1}
	}

	// The candidate read was unlocked; confirm each chosen unit under its row lock.
	for _, a := range sortedBySlot(allocations) {
		if _, err := c.checkSlotHeadroom(ctx, tx, a.SlotID, own, a.Quantity); err != nil {
			return nil, err
		}
	}
	return allocations, nil
}

// commitPackage quotes and commits package coverage under the usage row lock.
func (c *bookingCommandsImpl) commitPackage(ctx context.Context, tx shared.Tx, p CreateBookingParams, serviceID uuid.UUID) (booking.Split, error) {
	if p.PackageSubscriptionID == nil {
		split, err := booking.NewSplit(p.VisitorCount, 0)
		if err != nil {
			return booking.Split{}, errs.Mark(err, ErrValidation)
		}
		return split, nil
	}
	subscriptionID := *p.PackageSubscriptionID

	cov, err := c.entitlement.QuoteLocked(ctx, tx, subscriptionID, serviceID, p.VisitorCount)
	if err != nil {
		return booking.Split{}, err
	}

	if expected, ok := derefInt(p.ExpectedCoveredQuantity); ok && cov.Covered < expected {
		return booking.Split{}, errs.Mark(
			&entitlement.InsufficientRemainingError{Remaining: cov.Remaining, Requested: expected},
			ErrInsufficientRemaining,
		)
	}

	if cov.Covered > 0 {
		if err := c.entitlement.Commit(ctx, tx, subscriptionID, serviceID, cov.Covered); err != nil {
			return booking.Split{}, err
		}
	}

	split, err := booking.NewSplit(p.VisitorCount, cov.Covered)
	if err != nil {
		return booking.Split{}, errs.Mark(err, ErrValidation)
	}
	return split, nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID) (cancelled *booking.Booking, err error) {
	ctx, span := tracer.Start(ctx, "BookingCommands.CancelBooking")
	span.SetAttributes(attribute.String("booking.id", bookingID.String()))
	defer func() {
		if errs.Is(err, ErrAlreadyCancelled) {
			span.SetAttributes(attribute.Bool("already_cancelled", true))
			span.End()
			return
		}
		endSpan(span, err)
	}()

	var already *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return bookingErr(err)
		}

		from := b.Status()
		if err := b.Cancel(c.clock.Now()); err != nil {
			if errs.Is(err, booking.ErrAlreadyCancelled) {
				already = b
				return errs.Mark(err, ErrAlreadyCancelled)
			}
			return errs.Mark(err, ErrInvalidStatusChange)
		}

		updated, err := tx.Bookings().UpdateStatus(ctx, b, from)
		if err != nil {
			return errs.Mark(err, ErrDatabaseFailure)
		}
		if !updated {
			already = b
			return ErrAlreadyCancelled
		}

		// The status update above is the once-only guard for these restores.
		for _, a := range sortedBySlot(b.Allocations()) {
			if err := c.capacity.Restore(ctx, tx, a.SlotID, a.Quantity); err != nil {
				return err
			}
		}

		if sub := b.PackageSubscriptionID(); sub != nil && b.PackageCoveredQuantity() > 0 {
			slot, err := tx.Slots().Get(ctx, b.SlotID())
			if err != nil {
				return slotErr(err)
			}
			if err := c.entitlement.Restore(ctx, tx, *sub, slot.ServiceID(), b.PackageCoveredQuantity()); err != nil {
				return err
			}
		}

		cancelled = b
		return nil
	})
	if err != nil {
		if errs.Is(err, ErrAlreadyCancelled) {
			return already, err
		}
		return nil, err
	}

	slog.InfoContext(ctx, "booking cancelled",
		"booking_id", cancelled.ID(),
		"restored_capacity", cancelled.VisitorCount(),
		"restored_package", cancelled.PackageCoveredQuantity())

	c.publish(ctx, shared.NewBookingEvent(shared.EventBookingCancelled, cancelled, c.clock.Now()))
	return cancelled, nil
}

func (c *bookingCommandsImpl) TransitionStatus(ctx context.Context, p TransitionStatusParams) (updated *booking.Booking, err error) {
	ctx, span := tracer.Start(ctx, "BookingCommands.TransitionStatus")
	span.SetAttributes(attribute.String("booking.id", p.BookingID.String()), attribute.String("status", string(p.Status)))
	defer func() { endSpan(span, err) }()

	if err := c.validator.Struct(p); err != nil {
		return nil, err
	}
	if p.Status == booking.StatusCancelled {
		return nil, errs.WithDetail(ErrInvalidStatusChange, "use the cancel operation to cancel a booking")
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetForUpdate(ctx, p.BookingID)
		if err != nil {
			return bookingErr(err)
		}

		from := b.Status()
		if err := b.TransitionTo(p.Status, c.clock.Now()); err != nil {
			if errs.Is(err, booking.ErrInvalidStatus) {
				return errs.Mark(err, ErrValidation)
			}
			return errs.Mark(errs.WithDetail(err, fmt.Sprintf("%s -> %s", from, p.Status)), ErrInvalidStatusChange)
		}

		ok, err := tx.Bookings().UpdateStatus(ctx, b, from)
		if err != nil {
			return errs.Mark(err, ErrDatabaseFailure)
		}
		if !ok {
			return ErrInvalidStatusChange
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// publish hands the event to the dispatcher. Delivery problems are logged and
// never surface to the caller: the booking is already committed.
func (c *bookingCommandsImpl) publish(ctx context.Context, event shared.BookingEvent) {
	if c.dispatcher == nil {
		return
	}
	if err := c.dispatcher.Dispatch(context.WithoutCancel(ctx), event); err != nil {
		slog.WarnContext(ctx, "booking event dispatch failed",
			"type", event.Type, "booking_id", event.BookingID, "error", err.Error())
	}
}

func sortedBySlot(allocations []booking.Allocation) []booking.Allocation {
	out := slices.Clone(allocations)
	slices.SortFunc(out, func(a, b booking.Allocation) int {
		return bytes.Compare(a.SlotID[:], b.SlotID[:])
	})
	return out
}

func slotErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrSlotNotFound)
	}
	return errs.Mark(err, ErrDatabaseFailure)
}

func bookingErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrBookingNotFound)
	}
	return errs.Mark(err, ErrDatabaseFailure)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
