package consumers

import (
	"context"

	"bookings-api/events"
	"bookings-api/logging"
	"bookings-api/repositories"
)

// RegisterHandlers conecta los handlers de eventos al router.
// cache puede ser nil si el caché del ranking está deshabilitado
func RegisterHandlers(router *events.Router, cache repositories.RankingCache) {
	router.Handle(events.TypeBookingCreated, LogBookingCreated)
	if cache != nil {
		router.Handle(events.TypeRatingSubmitted, InvalidateRanking(cache))
	}
}

// LogBookingCreated deja registro de cada reserva confirmada
func LogBookingCreated(ctx context.Context, event events.Event) error {
	var payload events.BookingCreated
	if err := event.Decode(&payload); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Uint("booking_id", payload.BookingID).
		Uint("listing_id", payload.ListingID).
		Str("date_from", payload.DateFrom).
		Str("date_to", payload.DateTo).
		Msg("Booking created")
	return nil
}

// InvalidateRanking invalida el ranking cacheado cuando llega una calificación
func InvalidateRanking(cache repositories.RankingCache) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		var payload events.RatingSubmitted
		if err := event.Decode(&payload); err != nil {
			return err
		}
		if err := cache.Invalidate(ctx); err != nil {
			return err
		}
		logging.Ctx(ctx).Debug().Uint("listing_id", payload.ListingID).Msg("Ranking cache invalidated")
		return nil
	}
}
