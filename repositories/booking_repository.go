package repositories

import (
	"context"
	"errors"
	"fmt"

	"bookings-api/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictCheck decide si una reserva puede entrar dadas las que ya tiene el listing
// Devuelve nil para aceptar
type ConflictCheck func(existing []domain.Booking) error

// BookingRepository define las operaciones sobre reservas
type BookingRepository interface {
	// Reserve corre check e inserta la reserva como una sola operación atómica
	// por listing. Devuelve domain.ErrListingNotFound si el listing no existe
	Reserve(ctx context.Context, booking *domain.Booking, check ConflictCheck) error
	GetByID(ctx context.Context, id uint) (*domain.Booking, error)
	ListByListing(ctx context.Context, listingID uint) ([]domain.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository crea una nueva instancia del repositorio
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Reserve bloquea la fila del listing con SELECT ... FOR UPDATE.
// Dos reservas del mismo listing quedan serializadas; listings distintos no se bloquean entre sí
func (r *bookingRepository) Reserve(ctx context.Context, booking *domain.Booking, check ConflictCheck) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock del listing (y chequeo de existencia)
		var listing domain.Listing
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&listing, booking.ListingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrListingNotFound
			}
			return fmt.Errorf("failed to lock listing %d: %w", booking.ListingID, err)
		}

		// 2. Reservas actuales del listing
		var existing []domain.Booking
		if err := tx.Where("listing_id = ?", booking.ListingID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load bookings of listing %d: %w", booking.ListingID, err)
		}

		// 3. Decisión
		if err := check(existing); err != nil {
			return err
		}

		// 4. Insert
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
}

// GetByID busca una reserva por su ID
func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking %d: %w", id, err)
	}
	return &booking, nil
}

// ListByListing devuelve las reservas de un listing ordenadas por fecha de inicio
func (r *bookingRepository) ListByListing(ctx context.Context, listingID uint) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings of listing %d: %w", listingID, err)
	}
	return bookings, nil
}
