package ledger

import (
	"context"

	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// EntitlementLedger is the only writer of package usage counters.
// Quotes are advisory; Commit under the row lock is authoritative.
type EntitlementLedger struct {
	uow shared.UnitOfWork
}

func NewEntitlementLedger(uow shared.UnitOfWork) *EntitlementLedger {
	return &EntitlementLedger{uow: uow}
}

// QuoteCoverage reads the balance without locking it.
func (l *EntitlementLedger) QuoteCoverage(ctx context.Context, subscriptionID, serviceID uuid.UUID, requested int) (cov entitlement.Coverage, err error) {
	ctx, span := tracer.Start(ctx, "EntitlementLedger.QuoteCoverage")
	span.SetAttributes(
		attribute.String("subscription.id", subscriptionID.String()),
		attribute.String("service.id", serviceID.String()),
		attribute.Int("quantity", requested),
	)
	defer func() { endSpan(span, err) }()

	if requested < 0 {
		return entitlement.Coverage{}, errs.Mark(entitlement.ErrInvalidQuantity, shared.ErrValidation)
	}

	err = l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		usage, err := tx.Packages().Get(ctx, subscriptionID, serviceID)
		if err != nil {
			return classifyUsageErr(err)
		}
		cov = usage.Quote(requested)
		return nil
	})
	return cov, err
}

// QuoteLocked quotes against the row-locked balance inside tx.
func (l *EntitlementLedger) QuoteLocked(ctx context.Context, tx shared.Tx, subscriptionID, serviceID uuid.UUID, requested int) (entitlement.Coverage, error) {
	usage, err := tx.Packages().GetForUpdate(ctx, subscriptionID, serviceID)
	if err != nil {
		return entitlement.Coverage{}, classifyUsageErr(err)
	}
	return usage.Quote(requested), nil
}

// Commit moves covered units from remaining to used or fails without mutation.
func (l *EntitlementLedger) Commit(ctx context.Context, tx shared.Tx, subscriptionID, serviceID uuid.UUID, covered int) (err error) {
	ctx, span := tracer.Start(ctx, "EntitlementLedger.Commit")
	span.SetAttributes(
		attribute.String("subscription.id", subscriptionID.String()),
		attribute.Int("quantity", covered),
	)
	defer func() { endSpan(span, err) }()

	usage, err := tx.Packages().GetForUpdate(ctx, subscriptionID, serviceID)
	if err != nil {
		return classifyUsageErr(err)
	}

	if err := usage.Commit(covered); err != nil {
		if errs.Is(err, entitlement.ErrInsufficientRemaining) {
			return errs.Mark(err, shared.ErrInsufficientRemaining)
		}
		return errs.Mark(err, shared.ErrValidation)
	}

	if err := tx.Packages().Update(ctx, usage); err != nil {
		return errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return nil
}

// Restore credits qty units back, saturating at the purchased balance.
func (l *EntitlementLedger) Restore(ctx context.Context, tx shared.Tx, subscriptionID, serviceID uuid.UUID, qty int) (err error) {
	ctx, span := tracer.Start(ctx, "EntitlementLedger.Restore")
	span.SetAttributes(
		attribute.String("subscription.id", subscriptionID.String()),
		attribute.Int("quantity", qty),
	)
	defer func() { endSpan(span, err) }()

	usage, err := tx.Packages().GetForUpdate(ctx, subscriptionID, serviceID)
	if err != nil {
		return classifyUsageErr(err)
	}

	if err := usage.Restore(qty); err != nil {
		return errs.Mark(err, shared.ErrValidation)
	}

	if err := tx.Packages().Update(ctx, usage); err != nil {
		return errs.Mark(err, shared.ErrDatabaseFailure)
	}
	return nil
}

func classifyUsageErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, shared.ErrPackageNotFound)
	}
	return errs.Mark(err, shared.ErrDatabaseFailure)
}
