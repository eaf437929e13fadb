// Package metrics registra las métricas de Prometheus de la API
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados de un intento de reserva
const (
	BookingCreated  = "created"
	BookingConflict = "conflict"
	BookingNotFound = "not_found"
	BookingInvalid  = "invalid"
	BookingError    = "error"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookings_api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookings_api_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	// Dominio
	BookingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_booking_attempts_total",
			Help: "Booking attempts by result",
		},
		[]string{"result"},
	)

	RatingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_ratings_submitted_total",
			Help: "Ratings stored, by score",
		},
		[]string{"score"},
	)

	// Caché del ranking
	RankingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_ranking_cache_lookups_total",
			Help: "Ranking cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	RankingCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_ranking_cache_invalidations_total",
			Help: "Number of ranking cache generation bumps",
		},
	)

	// Eventos
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_events_published_total",
			Help: "Domain events published, by type and outcome",
		},
		[]string{"type", "outcome"},
	)
)

// RecordAPIRequest registra una request terminada
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest suma o resta una request en curso
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBookingAttempt cuenta un intento de reserva
func RecordBookingAttempt(result string) {
	BookingAttempts.WithLabelValues(result).Inc()
}

// RecordRating cuenta una calificación guardada
func RecordRating(score int) {
	RatingsSubmitted.WithLabelValues(strconv.Itoa(score)).Inc()
}

// RecordCacheLookup cuenta una búsqueda en el caché (tier: local|remote)
func RecordCacheLookup(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	RankingCacheLookups.WithLabelValues(tier, result).Inc()
}

// RecordEventPublished cuenta un evento publicado
func RecordEventPublished(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsPublished.WithLabelValues(eventType, outcome).Inc()
}
