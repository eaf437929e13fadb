package controllers

import (
	"net/http"

	"bookings-api/dto"
	"bookings-api/middleware"
	"bookings-api/services"

	"github.com/gin-gonic/gin"
)

// BookingController maneja las reservas de los guests
type BookingController struct {
	service services.BookingService
}

// NewBookingController crea una nueva instancia del controlador
func NewBookingController(service services.BookingService) *BookingController {
	return &BookingController{service: service}
}

// Book maneja POST /v1/guest/book
func (ctrl *BookingController) Book(c *gin.Context) {
	// 1. Leer el JSON del body
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	// 2. Quién reserva (lo dejó AuthMiddleware)
	principal, _ := middleware.PrincipalFrom(c)

	// 3. Reservar
	booking, err := ctrl.service.Book(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.BookingResponse{
		Message: "Booking created successfully",
		Booking: *booking,
	})
}
