package controllers

import (
	"errors"
	"net/http"

	"bookings-api/domain"
	"bookings-api/dto"
	"bookings-api/logging"
	"bookings-api/validation"

	"github.com/gin-gonic/gin"
)

// respondError traduce un error de dominio a status + JSON
//   - validación y conflicto de fechas: 400
//   - no encontrado: 404
//   - credenciales: 401
//   - cualquier otro: 500 sin detalles internos
func respondError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError("unexpected error", err)
	}

	status := http.StatusInternalServerError
	switch domainErr.Kind {
	case domain.KindValidation, domain.KindConflict:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Request failed")
		c.JSON(status, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "an internal error occurred",
		})
		return
	}

	c.JSON(status, dto.ErrorResponse{
		Error:   domainErr.Code,
		Message: domainErr.Message,
	})
}

// respondBindingError responde 400 con un mensaje legible del validador
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: validation.Message(err),
	})
}
