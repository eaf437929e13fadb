package dto

import "bookings-api/domain"

// CreateBookingRequest es el request de reserva de un guest
type CreateBookingRequest struct {
	DateFrom  string   `json:"date_from" binding:"required,isodate"`
	DateTo    string   `json:"date_to" binding:"required,isodate"`
	Names     []string `json:"names" binding:"required,min=1,dive,required"`
	ListingID uint     `json:"listing_id" binding:"required,gt=0"`
}

// BookingResponse es la respuesta de una reserva creada
type BookingResponse struct {
	Message string         `json:"message"`
	Booking domain.Booking `json:"booking"`
}
