package components

import (
	"reservation-engine/internal/handler"
	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewBookingHandler,
		api.NewCatalogHandler,
		middleware.NewSessionMiddleware,
		func(checkout *api.CheckoutHandler, booking *api.BookingHandler, catalog *api.CatalogHandler, session *middleware.SessionMiddleware) handler.Handlers {
			return handler.Handlers{Checkout: checkout, Booking: booking, Catalog: catalog, Session: session}
		},
	),
	fx.Invoke(handler.NewRouter),
)
