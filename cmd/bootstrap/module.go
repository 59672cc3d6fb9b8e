package bootstrap

import (
	"reservation-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	SessionModule,
	components.PersistenceModule,
	components.NotifyModule,
	components.UseCaseModule,
	components.WorkerModule,
	components.HandlerModule,
)
