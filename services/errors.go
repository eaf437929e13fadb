package services

import (
	"errors"

	"bookings-api/domain"
)

// wrapInternal deja pasar los errores de dominio y envuelve el resto como internos
func wrapInternal(message string, err error) error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewInternalError(message, err)
}
