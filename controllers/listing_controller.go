package controllers

import (
	"net/http"

	"bookings-api/dto"
	"bookings-api/services"

	"github.com/gin-gonic/gin"
)

// ListingController maneja los endpoints de listings
type ListingController struct {
	service services.ListingService
}

// NewListingController crea una nueva instancia del controlador
func NewListingController(service services.ListingService) *ListingController {
	return &ListingController{service: service}
}

// All maneja GET /v1/all
func (ctrl *ListingController) All(c *gin.Context) {
	listings, err := ctrl.service.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// Insert maneja POST /v1/host/insert-listing
func (ctrl *ListingController) Insert(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	listing, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateListingResponse{
		Message:    "Listing created successfully",
		InsertedID: listing.ID,
	})
}

// Query maneja GET /v1/guest/query-listings
// Ejemplo: ?date_from=2024-01-15&date_to=2024-01-20&num_guest=2&country=France&city=Paris
func (ctrl *ListingController) Query(c *gin.Context) {
	var query dto.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	listings, err := ctrl.service.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}
