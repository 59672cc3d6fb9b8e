package queries

import (
	"context"

	"reservation-engine/internal/usecase/ledger"

	"github.com/google/uuid"
)

//go:generate mockgen -source=package.go -destination=../../../tests/mock/queries/package.go -package=queriesmock

type PackageQueries interface {
	// QuoteCoverage is advisory: the balance is re-checked under lock at booking time.
	QuoteCoverage(ctx context.Context, subscriptionID, serviceID uuid.UUID, requested int) (*CoverageView, error)
}

type packageQueriesImpl struct {
	ledger *ledger.EntitlementLedger
}

func NewPackageQueries(ledger *ledger.EntitlementLedger) PackageQueries {
	return &packageQueriesImpl{ledger: ledger}
}

func (q *packageQueriesImpl) QuoteCoverage(ctx context.Context, subscriptionID, serviceID uuid.UUID, requested int) (*CoverageView, error) {
	cov, err := q.ledger.QuoteCoverage(ctx, subscriptionID, serviceID, requested)
	if err != nil {
		return nil, err
	}
	return &CoverageView{
		SubscriptionID: subscriptionID,
		ServiceID:      serviceID,
		Requested:      requested,
		Covered:        cov.Covered,
		Uncovered:      cov.Uncovered(requested),
		Remaining:      cov.Remaining,
	}, nil
}
