package repository

import (
	"context"
	"time"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UnitCatalogQueries interface {
	ListCandidateUnits(ctx context.Context, db pgquery.DBTX, arg pgquery.ListCandidateUnitsParams) ([]pgquery.Slot, error)
}

// UnitCatalog lists employee slots. Rows are read without locks; callers
// re-check each chosen unit under its row lock.
type UnitCatalog struct {
	queries UnitCatalogQueries
	db      pgquery.DBTX
}

func NewUnitCatalog(queries UnitCatalogQueries, db pgquery.DBTX) *UnitCatalog {
	return &UnitCatalog{
		queries: queries,
		db:      db,
	}
}

func (c *UnitCatalog) CandidateUnits(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]*capacity.Slot, error) {
	rows, err := c.queries.ListCandidateUnits(ctx, c.db, pgquery.ListCandidateUnitsParams{
		TenantID:  tenantID,
		ServiceID: serviceID,
		SlotDate:  pgconv.DateToPgtype(date),
	})
	if err != nil {
		return nil, wrapPgErr("failed to list candidate units", err)
	}

	out := make([]*capacity.Slot, 0, len(rows))
	for _, row := range rows {
		slot, err := converter.SlotToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("stored slot is invalid", err)
		}
		out = append(out, slot)
	}
	return out, nil
}
