package services

import (
	"context"
	"strings"

	"bookings-api/domain"
	"bookings-api/dto"
	"bookings-api/logging"
	"bookings-api/repositories"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListingService define las operaciones del catálogo
type ListingService interface {
	Create(ctx context.Context, req dto.CreateListingRequest) (*domain.Listing, error)
	All(ctx context.Context) ([]domain.Listing, error)
	Search(ctx context.Context, query dto.ListingQuery) ([]domain.Listing, error)
}

type listingService struct {
	repo repositories.ListingRepository
}

// NewListingService crea una nueva instancia del servicio
func NewListingService(repo repositories.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

// Create publica un listing nuevo
func (s *listingService) Create(ctx context.Context, req dto.CreateListingRequest) (*domain.Listing, error) {
	country := strings.TrimSpace(req.Country)
	city := strings.TrimSpace(req.City)

	switch {
	case req.NumPeople <= 0:
		return nil, domain.NewValidationError("invalid_num_people", "num_people must be greater than 0")
	case country == "" || city == "":
		return nil, domain.NewValidationError("invalid_location", "country and city are required")
	case req.Price == nil || *req.Price < 0:
		return nil, domain.NewValidationError("invalid_price", "price must be 0 or greater")
	}

	listing := &domain.Listing{
		NumPeople: req.NumPeople,
		Country:   country,
		City:      city,
		Price:     *req.Price,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, wrapInternal("failed to create listing", err)
	}

	logging.Ctx(ctx).Info().Uint("listing_id", listing.ID).Str("city", city).Msg("Listing created")
	return listing, nil
}

// All devuelve todos los listings
func (s *listingService) All(ctx context.Context) ([]domain.Listing, error) {
	listings, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, wrapInternal("failed to list listings", err)
	}
	return listings, nil
}

// Search devuelve los listings disponibles para todo el rango pedido
func (s *listingService) Search(ctx context.Context, query dto.ListingQuery) ([]domain.Listing, error) {
	requested, err := domain.ParseDateRange(query.DateFrom, query.DateTo)
	if err != nil {
		return nil, err
	}
	if query.NumGuest <= 0 {
		return nil, domain.NewValidationError("invalid_num_guest", "num_guest must be greater than 0")
	}
	page, err := normalizePagination(dto.Pagination{Page: query.Page, PageSize: query.PageSize})
	if err != nil {
		return nil, err
	}

	listings, err := s.repo.Search(ctx, repositories.ListingFilter{
		Country:  strings.TrimSpace(query.Country),
		City:     strings.TrimSpace(query.City),
		NumGuest: query.NumGuest,
		Range:    requested,
		Offset:   page.Offset(),
		Limit:    page.Limit(),
	})
	if err != nil {
		return nil, wrapInternal("failed to search listings", err)
	}
	return listings, nil
}

// normalizePagination aplica los valores por defecto (página 1, 10 por página)
// y rechaza valores fuera de rango
func normalizePagination(p dto.Pagination) (dto.Pagination, error) {
	if p.Page == 0 {
		p.Page = defaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
	if p.Page < 1 {
		return p, domain.NewValidationError("invalid_page", "page must be 1 or greater")
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		return p, domain.NewValidationError("invalid_page_size", "pageSize must be between 1 and 100")
	}
	return p, nil
}
