package repositories

import (
	"context"
	"fmt"

	"bookings-api/domain"

	"gorm.io/gorm"
)

// RankingFilter son los filtros del ranking por calificación
type RankingFilter struct {
	Country   string
	City      string
	Threshold float64
	Offset    int
	Limit     int
}

// RatingRepository define las operaciones sobre calificaciones
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	RankByAverage(ctx context.Context, filter RankingFilter) ([]domain.ListingRating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository crea una nueva instancia del repositorio
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create guarda una calificación
func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

// RankByAverage agrupa las calificaciones por listing.
// El INNER JOIN deja afuera a los listings sin calificaciones y HAVING es estricto (>)
func (r *ratingRepository) RankByAverage(ctx context.Context, filter RankingFilter) ([]domain.ListingRating, error) {
	rows := []domain.ListingRating{}
	err := r.db.WithContext(ctx).
		Table("listings").
		Select("listings.id, listings.country, listings.city, listings.price, AVG(ratings.rating) AS average_rating").
		Joins("JOIN ratings ON ratings.listing_id = listings.id").
		Where("listings.country = ? AND listings.city = ?", filter.Country, filter.City).
		Group("listings.id, listings.country, listings.city, listings.price").
		Having("AVG(ratings.rating) > ?", filter.Threshold).
		Order("average_rating DESC, listings.id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank listings: %w", err)
	}
	return rows, nil
}
