package services

import (
	"context"
	"errors"
	"strings"

	"bookings-api/domain"
	"bookings-api/dto"
	"bookings-api/events"
	"bookings-api/logging"
	"bookings-api/metrics"
	"bookings-api/repositories"
)

// BookingService es el motor de disponibilidad: decide y guarda reservas
type BookingService interface {
	Book(ctx context.Context, guest domain.Principal, req dto.CreateBookingRequest) (*domain.Booking, error)
}

type bookingService struct {
	repo      repositories.BookingRepository
	publisher events.Publisher
}

// NewBookingService crea una nueva instancia del servicio
func NewBookingService(repo repositories.BookingRepository, publisher events.Publisher) BookingService {
	return &bookingService{repo: repo, publisher: publisher}
}

// Book reserva el listing para el rango cerrado [date_from, date_to].
// Si alguna reserva existente comparte aunque sea un día, no se escribe nada
func (s *bookingService) Book(ctx context.Context, guest domain.Principal, req dto.CreateBookingRequest) (*domain.Booking, error) {
	// 1. Validar input
	requested, err := domain.ParseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		metrics.RecordBookingAttempt(metrics.BookingInvalid)
		return nil, err
	}
	names, err := cleanNames(req.Names)
	if err != nil {
		metrics.RecordBookingAttempt(metrics.BookingInvalid)
		return nil, err
	}
	if req.ListingID == 0 {
		metrics.RecordBookingAttempt(metrics.BookingInvalid)
		return nil, domain.NewValidationError("invalid_listing_id", "listing_id must be greater than 0")
	}

	booking := &domain.Booking{
		ListingID:  req.ListingID,
		GuestID:    guest.UserID,
		GuestNames: names,
		StartDate:  requested.FromString(),
		EndDate:    requested.ToString(),
	}

	// 2. Chequeo + insert atómico por listing
	err = s.repo.Reserve(ctx, booking, func(existing []domain.Booking) error {
		if conflict := domain.FindConflict(existing, requested); conflict != nil {
			logging.Ctx(ctx).Info().
				Uint("listing_id", req.ListingID).
				Uint("conflicting_booking_id", conflict.ID).
				Str("date_from", booking.StartDate).
				Str("date_to", booking.EndDate).
				Msg("Booking rejected: dates overlap")
			return domain.ErrBookingConflict
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingConflict):
			metrics.RecordBookingAttempt(metrics.BookingConflict)
		case errors.Is(err, domain.ErrListingNotFound):
			metrics.RecordBookingAttempt(metrics.BookingNotFound)
		default:
			metrics.RecordBookingAttempt(metrics.BookingError)
		}
		return nil, wrapInternal("failed to create booking", err)
	}

	metrics.RecordBookingAttempt(metrics.BookingCreated)
	logging.Ctx(ctx).Info().
		Uint("booking_id", booking.ID).
		Uint("listing_id", booking.ListingID).
		Int("days", requested.Days()).
		Msg("Booking created")

	// 3. Evento (la reserva ya está guardada, un error solo se loguea)
	publish(ctx, s.publisher, events.TypeBookingCreated, events.BookingCreated{
		BookingID: booking.ID,
		ListingID: booking.ListingID,
		GuestID:   booking.GuestID,
		DateFrom:  booking.StartDate,
		DateTo:    booking.EndDate,
	})

	return booking, nil
}

// cleanNames exige al menos un nombre no vacío
func cleanNames(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, domain.NewValidationError("invalid_names", "names must contain at least one name")
	}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, domain.NewValidationError("invalid_names", "names must not be empty")
		}
		cleaned = append(cleaned, name)
	}
	return cleaned, nil
}

// publish arma y publica un evento; los errores se loguean
func publish(ctx context.Context, publisher events.Publisher, eventType string, payload interface{}) {
	if publisher == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err == nil {
		err = publisher.Publish(ctx, event)
	}
	metrics.RecordEventPublished(eventType, err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
	}
}
