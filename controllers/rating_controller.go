package controllers

import (
	"net/http"

	"bookings-api/dto"
	"bookings-api/services"

	"github.com/gin-gonic/gin"
)

// RatingController maneja calificaciones y el ranking de admin
type RatingController struct {
	service services.RatingService
}

// NewRatingController crea una nueva instancia del controlador
func NewRatingController(service services.RatingService) *RatingController {
	return &RatingController{service: service}
}

// Rate maneja POST /v1/guest/rate
func (ctrl *RatingController) Rate(c *gin.Context) {
	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	rating, err := ctrl.service.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RatingResponse{
		Message: "Rating submitted successfully",
		Rating:  *rating,
		Comment: req.CommentText(),
	})
}

// ListingByRating maneja GET /v1/admin/listing-by-rating
// Ejemplo: ?country=France&city=Paris&threshold=3.5&page=1&pageSize=10
func (ctrl *RatingController) ListingByRating(c *gin.Context) {
	var query dto.RankingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	listings, page, err := ctrl.service.Rank(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RankingResponse{
		Message:    "Listings fetched successfully",
		Listings:   listings,
		Pagination: page,
	})
}
