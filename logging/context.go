package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// NewRequestID genera un ID único para una request
func NewRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID guarda el request ID en el contexto
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext devuelve el request ID o "" si no hay
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx devuelve un logger con el request_id del contexto ya agregado
//
//	logging.Ctx(ctx).Info().Uint("booking_id", id).Msg("Booking created")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	return &logger
}
