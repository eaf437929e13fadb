package services

import (
	"context"
	"crypto/md5"
	"fmt"
	"math"
	"strings"

	"bookings-api/domain"
	"bookings-api/dto"
	"bookings-api/events"
	"bookings-api/logging"
	"bookings-api/metrics"
	"bookings-api/repositories"
)

// RatingService guarda calificaciones y arma el ranking de admin
type RatingService interface {
	Submit(ctx context.Context, req dto.SubmitRatingRequest) (*domain.Rating, error)
	Rank(ctx context.Context, query dto.RankingQuery) ([]domain.ListingRating, dto.Pagination, error)
}

type ratingService struct {
	ratings   repositories.RatingRepository
	bookings  repositories.BookingRepository
	cache     repositories.RankingCache
	publisher events.Publisher
}

// NewRatingService crea una nueva instancia del servicio; cache puede ser nil
func NewRatingService(
	ratings repositories.RatingRepository,
	bookings repositories.BookingRepository,
	cache repositories.RankingCache,
	publisher events.Publisher,
) RatingService {
	return &ratingService{
		ratings:   ratings,
		bookings:  bookings,
		cache:     cache,
		publisher: publisher,
	}
}

// Submit guarda la calificación de una reserva.
// El listing se toma de la reserva, no del cliente
func (s *ratingService) Submit(ctx context.Context, req dto.SubmitRatingRequest) (*domain.Rating, error) {
	// 1. Validar puntaje (antes de tocar la BD)
	score, ok := req.Score()
	if !ok || !domain.ValidScore(score) {
		return nil, domain.ErrInvalidScore
	}
	if req.BookingID == 0 {
		return nil, domain.NewValidationError("invalid_booking_id", "booking_id must be greater than 0")
	}

	// 2. La reserva tiene que existir
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, wrapInternal("failed to load booking", err)
	}

	// 3. Guardar
	rating := &domain.Rating{
		ListingID: booking.ListingID,
		BookingID: booking.ID,
		Score:     score,
		Comment:   req.CommentText(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, wrapInternal("failed to save rating", err)
	}

	metrics.RecordRating(score)
	logging.Ctx(ctx).Info().
		Uint("rating_id", rating.ID).
		Uint("listing_id", rating.ListingID).
		Int("rating", score).
		Msg("Rating submitted")

	// 4. Evento: invalida el ranking cacheado
	publish(ctx, s.publisher, events.TypeRatingSubmitted, events.RatingSubmitted{
		RatingID:  rating.ID,
		ListingID: rating.ListingID,
		BookingID: rating.BookingID,
		Score:     rating.Score,
	})

	return rating, nil
}

// Rank devuelve los listings de la ciudad con promedio ESTRICTAMENTE mayor al umbral,
// de mayor a menor promedio. Los listings sin calificaciones no aparecen
func (s *ratingService) Rank(ctx context.Context, query dto.RankingQuery) ([]domain.ListingRating, dto.Pagination, error) {
	// 1. Validar
	if query.Threshold == nil || math.IsNaN(*query.Threshold) ||
		*query.Threshold < 0 || *query.Threshold > domain.MaxScore {
		return nil, dto.Pagination{}, domain.ErrInvalidThreshold
	}
	page, err := normalizePagination(dto.Pagination{Page: query.Page, PageSize: query.PageSize})
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	filter := repositories.RankingFilter{
		Country:   strings.TrimSpace(query.Country),
		City:      strings.TrimSpace(query.City),
		Threshold: *query.Threshold,
		Offset:    page.Offset(),
		Limit:     page.Limit(),
	}

	// 2. Caché
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(ctx, rankingFingerprint(filter))
		if listings, ok := s.cache.Get(ctx, cacheKey); ok {
			return listings, page, nil
		}
	}

	// 3. BD
	listings, err := s.ratings.RankByAverage(ctx, filter)
	if err != nil {
		return nil, dto.Pagination{}, wrapInternal("failed to rank listings", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, listings)
	}
	return listings, page, nil
}

// rankingFingerprint genera un hash de los parámetros de la consulta
func rankingFingerprint(f repositories.RankingFilter) string {
	keyParts := []string{
		fmt.Sprintf("country:%s", f.Country),
		fmt.Sprintf("city:%s", f.City),
		fmt.Sprintf("threshold:%g", f.Threshold),
		fmt.Sprintf("offset:%d", f.Offset),
		fmt.Sprintf("limit:%d", f.Limit),
	}
	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))
	return fmt.Sprintf("%x", hash)
}
