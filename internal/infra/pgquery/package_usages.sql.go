package pgquery

import (
	"context"

	"github.com/google/uuid"
)

type PackageUsageKey struct {
	SubscriptionID uuid.UUID
	ServiceID      uuid.UUID
}

const getPackageUsage = `-- name: GetPackageUsage :one
SELECT subscription_id, service_id, original_quantity, remaining_quantity, used_quantity
FROM package_subscription_usages
WHERE subscription_id = $1 AND service_id = $2`

func (q *Queries) GetPackageUsage(ctx context.Context, db DBTX, arg PackageUsageKey) (PackageSubscriptionUsage, error) {
	return scanUsage(db.QueryRow(ctx, getPackageUsage, arg.SubscriptionID, arg.ServiceID))
}

const getPackageUsageForUpdate = `-- name: GetPackageUsageForUpdate :one
SELECT subscription_id, service_id, original_quantity, remaining_quantity, used_quantity
FROM package_subscription_usages
WHERE subscription_id = $1 AND service_id = $2
FOR UPDATE`

func (q *Queries) GetPackageUsageForUpdate(ctx context.Context, db DBTX, arg PackageUsageKey) (PackageSubscriptionUsage, error) {
	return scanUsage(db.QueryRow(ctx, getPackageUsageForUpdate, arg.SubscriptionID, arg.ServiceID))
}

func scanUsage(row interface{ Scan(...any) error }) (PackageSubscriptionUsage, error) {
	var i PackageSubscriptionUsage
	err := row.Scan(
		&i.SubscriptionID,
		&i.ServiceID,
		&i.OriginalQuantity,
		&i.RemainingQuantity,
		&i.UsedQuantity,
	)
	return i, err
}

const updatePackageUsage = `-- name: UpdatePackageUsage :execrows
UPDATE package_subscription_usages
SET remaining_quantity = $3,
    used_quantity      = $4,
    updated_at         = NOW()
WHERE subscription_id = $1 AND service_id = $2`

type UpdatePackageUsageParams struct {
	SubscriptionID    uuid.UUID
	ServiceID         uuid.UUID
	RemainingQuantity int32
	UsedQuantity      int32
}

func (q *Queries) UpdatePackageUsage(ctx context.Context, db DBTX, arg UpdatePackageUsageParams) (int64, error) {
	result, err := db.Exec(ctx, updatePackageUsage,
		arg.SubscriptionID,
		arg.ServiceID,
		arg.RemainingQuantity,
		arg.UsedQuantity,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const upsertPackageUsage = `-- name: UpsertPackageUsage :exec
INSERT INTO package_subscription_usages (subscription_id, service_id, original_quantity, remaining_quantity, used_quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (subscription_id, service_id) DO UPDATE
SET original_quantity  = EXCLUDED.original_quantity,
    remaining_quantity = EXCLUDED.remaining_quantity,
    used_quantity      = EXCLUDED.used_quantity,
    updated_at         = NOW()`

func (q *Queries) UpsertPackageUsage(ctx context.Context, db DBTX, arg PackageSubscriptionUsage) error {
	_, err := db.Exec(ctx, upsertPackageUsage,
		arg.SubscriptionID,
		arg.ServiceID,
		arg.OriginalQuantity,
		arg.RemainingQuantity,
		arg.UsedQuantity,
	)
	return err
}
