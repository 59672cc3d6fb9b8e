package bootstrap

import (
	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/jwt"

	"go.uber.org/fx"
)

var SessionModule = fx.Module("session",
	fx.Provide(
		fx.Annotate(
			NewSessionService,
			fx.As(new(api.SessionIssuer)),
			fx.As(new(middleware.SessionValidator)),
		),
	),
)

func NewSessionService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.Session.Secret, cfg.Session.Duration)
}
