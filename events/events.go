// Package events define los eventos de dominio y cómo se publican.
//
// Con RabbitMQ habilitado los eventos van a la cola y los procesa
// consumers.RabbitMQConsumer; sin RabbitMQ, LocalPublisher los entrega
// en el mismo proceso al mismo Router.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tipos de evento
const (
	TypeBookingCreated  = "booking.created"
	TypeRatingSubmitted = "rating.submitted"
)

// Event es el sobre que viaja por la cola
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// BookingCreated se publica después de guardar una reserva
type BookingCreated struct {
	BookingID uint   `json:"booking_id"`
	ListingID uint   `json:"listing_id"`
	GuestID   uint   `json:"guest_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
}

// RatingSubmitted se publica después de guardar una calificación
type RatingSubmitted struct {
	RatingID  uint `json:"rating_id"`
	ListingID uint `json:"listing_id"`
	BookingID uint `json:"booking_id"`
	Score     int  `json:"rating"`
}

// NewEvent arma un Event con un ID nuevo
func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// Decode deserializa el payload en v
func (e Event) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Publisher publica eventos de dominio
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Handler procesa un evento
type Handler func(ctx context.Context, event Event) error

// Router reparte eventos a los handlers registrados por tipo
type Router struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewRouter crea un Router vacío
func NewRouter() *Router {
	return &Router{handlers: make(map[string][]Handler)}
}

// Handle registra un handler para un tipo de evento
func (r *Router) Handle(eventType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], h)
}

// Dispatch ejecuta los handlers del tipo en orden y corta en el primer error.
// Un tipo sin handlers no es un error
func (r *Router) Dispatch(ctx context.Context, event Event) error {
	r.mu.RLock()
	handlers := r.handlers[event.Type]
	r.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			return fmt.Errorf("handler for %s failed: %w", event.Type, err)
		}
	}
	return nil
}

// LocalPublisher entrega los eventos en el mismo proceso, de forma sincrónica
type LocalPublisher struct {
	router *Router
}

// NewLocalPublisher crea un LocalPublisher sobre router
func NewLocalPublisher(router *Router) *LocalPublisher {
	return &LocalPublisher{router: router}
}

// Publish ejecuta los handlers del evento
func (p *LocalPublisher) Publish(ctx context.Context, event Event) error {
	return p.router.Dispatch(ctx, event)
}

// Close no hace nada
func (p *LocalPublisher) Close() error {
	return nil
}
