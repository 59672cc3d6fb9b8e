package components

import (
	"context"
	"fmt"
	"log/slog"

	"reservation-engine/internal/infra/db"
	"reservation-engine/internal/infra/memstore"
	"reservation-engine/internal/infra/pgquery"
	"reservation-engine/internal/infra/uow"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork selects the store by STORE_DRIVER. The memory store keeps
// state for the life of the process only.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memstore.NewUoW(memstore.NewStore()), nil
	case config.StoreDriverPostgres:
		pool, cleanup, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		return uow.NewPostgresUoW(pool, pgquery.New()), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
