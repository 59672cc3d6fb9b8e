package repository

import (
	"context"

	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

//go:generate mockgen -source=package_usage.go -destination=../../../tests/mock/repository/package_usage.go -package=repositorymock

type PackageUsageQueries interface {
	GetPackageUsage(ctx context.Context, db pgquery.DBTX, arg pgquery.PackageUsageKey) (pgquery.PackageSubscriptionUsage, error)
	GetPackageUsageForUpdate(ctx context.Context, db pgquery.DBTX, arg pgquery.PackageUsageKey) (pgquery.PackageSubscriptionUsage, error)
	UpdatePackageUsage(ctx context.Context, db pgquery.DBTX, arg pgquery.UpdatePackageUsageParams) (int64, error)
}

type PackageUsageRepository struct {
	queries PackageUsageQueries
	db      pgquery.DBTX
}

func NewPackageUsageRepository(queries PackageUsageQueries, db pgquery.DBTX) *PackageUsageRepository {
	return &PackageUsageRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PackageUsageRepository) Get(ctx context.Context, subscriptionID, serviceID uuid.UUID) (*entitlement.Usage, error) {
	row, err := r.queries.GetPackageUsage(ctx, r.db, pgquery.PackageUsageKey{SubscriptionID: subscriptionID, ServiceID: serviceID})
	if err != nil {
		return nil, wrapPgErr("failed to get package usage", err)
	}
	return toUsage(row)
}

func (r *PackageUsageRepository) GetForUpdate(ctx context.Context, subscriptionID, serviceID uuid.UUID) (*entitlement.Usage, error) {
	row, err := r.queries.GetPackageUsageForUpdate(ctx, r.db, pgquery.PackageUsageKey{SubscriptionID: subscriptionID, ServiceID: serviceID})
	if err != nil {
		return nil, wrapPgErr("failed to lock package usage", err)
	}
	return toUsage(row)
}

func (r *PackageUsageRepository) Update(ctx context.Context, u *entitlement.Usage) error {
	affected, err := r.queries.UpdatePackageUsage(ctx, r.db, pgquery.UpdatePackageUsageParams{
		SubscriptionID:    u.SubscriptionID(),
		ServiceID:         u.ServiceID(),
		RemainingQuantity: pgconv.IntToInt32(u.Remaining()),
		UsedQuantity:      pgconv.IntToInt32(u.Used()),
	})
	if err != nil {
		return wrapPgErr("failed to update package usage", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("package usage not found", nil, infra.KindNotFound)
	}
	return nil
}

func toUsage(row pgquery.PackageSubscriptionUsage) (*entitlement.Usage, error) {
	u, err := converter.UsageToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored package usage is invalid", err)
	}
	return u, nil
}
