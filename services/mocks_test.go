package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"bookings-api/domain"
	"bookings-api/events"
	"bookings-api/repositories"
)

// ============================================
// MOCKS de los repositorios para los tests
// ============================================

// memStore guarda todo en mapas; un solo mutex hace de lock por listing
type memStore struct {
	mu       sync.Mutex
	listings map[uint]*domain.Listing
	bookings map[uint]*domain.Booking
	ratings  map[uint]*domain.Rating
	users    map[string]*domain.User
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		listings: make(map[uint]*domain.Listing),
		bookings: make(map[uint]*domain.Booking),
		ratings:  make(map[uint]*domain.Rating),
		users:    make(map[string]*domain.User),
	}
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

type mockListingRepository struct{ *memStore }

func (m mockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	// Simular auto-increment del ID
	listing.ID = uint(len(m.listings) + 1)
	copied := *listing
	m.listings[listing.ID] = &copied
	return nil
}

func (m mockListingRepository) GetAll(ctx context.Context) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []domain.Listing{}
	for _, l := range m.listings {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockListingRepository) Search(ctx context.Context, f repositories.ListingFilter) ([]domain.Listing, error) {
	all, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	matches := []domain.Listing{}
	for _, l := range all {
		if l.Country != f.Country || l.City != f.City || l.NumPeople < f.NumGuest {
			continue
		}
		free := true
		for _, b := range m.bookings {
			if b.ListingID != l.ID {
				continue
			}
			r, _ := b.Range()
			if r.Overlaps(f.Range) {
				free = false
				break
			}
		}
		if free {
			matches = append(matches, l)
		}
	}
	return window(matches, f.Offset, f.Limit), nil
}

type mockBookingRepository struct{ *memStore }

func (m mockBookingRepository) Reserve(ctx context.Context, booking *domain.Booking, check repositories.ConflictCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.listings[booking.ListingID]; !ok {
		return domain.ErrListingNotFound
	}

	var existing []domain.Booking
	for _, b := range m.bookings {
		if b.ListingID == booking.ListingID {
			existing = append(existing, *b)
		}
	}
	if err := check(existing); err != nil {
		return err
	}

	booking.ID = uint(len(m.bookings) + 1)
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m mockBookingRepository) GetByID(ctx context.Context, id uint) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (m mockBookingRepository) ListByListing(ctx context.Context, listingID uint) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range m.bookings {
		if b.ListingID == listingID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

type mockRatingRepository struct {
	*memStore
	rankCalls int
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	rating.ID = uint(len(m.ratings) + 1)
	copied := *rating
	m.ratings[rating.ID] = &copied
	return nil
}

func (m *mockRatingRepository) RankByAverage(ctx context.Context, f repositories.RankingFilter) ([]domain.ListingRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankCalls++

	sums := map[uint]int{}
	counts := map[uint]int{}
	for _, r := range m.ratings {
		sums[r.ListingID] += r.Score
		counts[r.ListingID]++
	}

	out := []domain.ListingRating{}
	for id, count := range counts {
		l := m.listings[id]
		if l == nil || l.Country != f.Country || l.City != f.City {
			continue
		}
		avg := float64(sums[id]) / float64(count)
		if avg > f.Threshold {
			out = append(out, domain.ListingRating{ID: l.ID, Country: l.Country, City: l.City, Price: l.Price, AverageRating: avg})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].ID < out[j].ID
	})
	return window(out, f.Offset, f.Limit), nil
}

type mockUserRepository struct{ *memStore }

func (m mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Username]; exists {
		return errors.New("duplicate username")
	}
	user.ID = uint(len(m.users) + 1)
	copied := *user
	m.users[user.Username] = &copied
	return nil
}

func (m mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// recordingPublisher guarda los eventos publicados
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// mapCache es un RankingCache en memoria con generación
type mapCache struct {
	mu    sync.Mutex
	gen   int
	items map[string][]domain.ListingRating
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]domain.ListingRating)}
}

func (c *mapCache) Key(ctx context.Context, fingerprint string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%d:%s", c.gen, fingerprint)
}

func (c *mapCache) Get(ctx context.Context, key string) ([]domain.ListingRating, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, listings []domain.ListingRating) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = listings
}

func (c *mapCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return nil
}
