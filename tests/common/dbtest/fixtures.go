//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var queries = pgquery.New()

func SeedSlot(t *testing.T, db pgquery.DBTX, b *builder.SlotBuilder) *capacity.Slot {
	t.Helper()

	s, err := b.BuildDomain()
	require.NoError(t, err)
	require.NoError(t, queries.CreateSlot(context.Background(), db, converter.SlotToCreateParams(s)))
	return s
}

func SeedUsage(t *testing.T, db pgquery.DBTX, b *builder.UsageBuilder) *entitlement.Usage {
	t.Helper()

	u, err := b.BuildDomain()
	require.NoError(t, err)
	require.NoError(t, queries.UpsertPackageUsage(context.Background(), db, converter.UsageToParams(u)))
	return u
}

func LoadSlot(t *testing.T, db pgquery.DBTX, id uuid.UUID) *capacity.Slot {
	t.Helper()

	row, err := queries.GetSlot(context.Background(), db, id)
	require.NoError(t, err)
	s, err := converter.SlotToDomain(row)
	require.NoError(t, err)
	return s
}

func LoadUsage(t *testing.T, db pgquery.DBTX, subscriptionID, serviceID uuid.UUID) *entitlement.Usage {
	t.Helper()

	row, err := queries.GetPackageUsage(context.Background(), db, pgquery.PackageUsageKey{
		SubscriptionID: subscriptionID,
		ServiceID:      serviceID,
	})
	require.NoError(t, err)
	u, err := converter.UsageToDomain(row)
	require.NoError(t, err)
	return u
}

func CountRows(t *testing.T, db pgquery.DBTX, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
