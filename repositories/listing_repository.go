package repositories

import (
	"context"
	"fmt"

	"bookings-api/domain"

	"gorm.io/gorm"
)

// ListingFilter son los filtros de la búsqueda de disponibilidad
type ListingFilter struct {
	Country  string
	City     string
	NumGuest int
	Range    domain.DateRange
	Offset   int
	Limit    int
}

// ListingRepository define las operaciones sobre listings
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetAll(ctx context.Context) ([]domain.Listing, error)
	Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository crea una nueva instancia del repositorio
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create inserta un listing; GORM completa el ID
func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

// GetAll devuelve todos los listings ordenados por ID
func (r *listingRepository) GetAll(ctx context.Context) ([]domain.Listing, error) {
	listings := []domain.Listing{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

// Search devuelve los listings de la ciudad con capacidad suficiente
// y SIN ninguna reserva que se superponga con el rango pedido:
//
//	SELECT * FROM listings
//	WHERE country = ? AND city = ? AND num_people >= ?
//	  AND NOT EXISTS (SELECT 1 FROM bookings
//	                  WHERE bookings.listing_id = listings.id
//	                    AND bookings.start_date <= :to AND :from <= bookings.end_date)
//	ORDER BY id LIMIT ? OFFSET ?
func (r *listingRepository) Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	db := r.db.WithContext(ctx)

	overlapping := db.Model(&domain.Booking{}).
		Select("1").
		Where("bookings.listing_id = listings.id").
		Where("bookings.start_date <= ? AND ? <= bookings.end_date",
			filter.Range.ToString(), filter.Range.FromString())

	listings := []domain.Listing{}
	err := db.Model(&domain.Listing{}).
		Where("listings.country = ? AND listings.city = ?", filter.Country, filter.City).
		Where("listings.num_people >= ?", filter.NumGuest).
		Where("NOT EXISTS (?)", overlapping).
		Order("listings.id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, nil
}
