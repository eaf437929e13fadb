package dto

import (
	"math"
	"strconv"
	"strings"

	"bookings-api/domain"
)

// SubmitRatingRequest es la calificación de una reserva
// Rating se recibe como número o string numérico ("4"), igual que antes
// El rango 1..5 lo valida el servicio para devolver "invalid_score"
type SubmitRatingRequest struct {
	BookingID uint        `json:"booking_id" binding:"required,gt=0"`
	Rating    interface{} `json:"rating" binding:"required"`
	Comment   *string     `json:"comment" binding:"required"`
}

// Score convierte Rating a entero
// Devuelve false si no es numérico o tiene decimales
func (r SubmitRatingRequest) Score() (int, bool) {
	switch v := r.Rating.(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// CommentText devuelve el comentario o "" si no vino
func (r SubmitRatingRequest) CommentText() string {
	if r.Comment == nil {
		return ""
	}
	return *r.Comment
}

// RatingResponse devuelve la calificación guardada y el comentario
type RatingResponse struct {
	Message string        `json:"message"`
	Rating  domain.Rating `json:"rating"`
	Comment string        `json:"comment"`
}

// RankingQuery son los filtros del ranking de listings por calificación
type RankingQuery struct {
	Country   string   `form:"country" binding:"required"`
	City      string   `form:"city" binding:"required"`
	Threshold *float64 `form:"threshold" binding:"required"`
	Page      int      `form:"page,default=1" binding:"gte=1"`
	PageSize  int      `form:"pageSize,default=10" binding:"gte=1,lte=100"`
}

// Pagination devuelve la página pedida
func (q RankingQuery) Pagination() Pagination {
	return Pagination{Page: q.Page, PageSize: q.PageSize}
}

// RankingResponse es la respuesta del endpoint de admin
type RankingResponse struct {
	Message    string                 `json:"message"`
	Listings   []domain.ListingRating `json:"listings"`
	Pagination Pagination             `json:"pagination"`
}
