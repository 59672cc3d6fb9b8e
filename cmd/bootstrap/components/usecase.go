package components

import (
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/ledger"
	"reservation-engine/internal/usecase/locks"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseLedgerModule,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	shared.DefaultPaymentStatusDeriver,
	func(cfg config.Config) config.LockConfig { return cfg.Lock },
)

var usecaseLedgerModule = fx.Module("usecase/ledger",
	fx.Provide(
		ledger.NewCapacityLedger,
		ledger.NewEntitlementLedger,
		locks.NewManager,
		func(m *locks.Manager) locks.LockCommands { return m },
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewSlotQueries,
		queries.NewPackageQueries,
	),
)
