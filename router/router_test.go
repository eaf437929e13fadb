package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookings-api/authz"
	"bookings-api/domain"
	"bookings-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================
// Servicios falsos
// ============================================

type fakeAuth struct{}

func (fakeAuth) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Username == "guest" && req.Password == "password123" {
		return &dto.LoginResponse{Message: "Authentication successful", Token: "guest"}, nil
	}
	return nil, domain.ErrInvalidCredentials
}

// El token es el nombre del rol
func (fakeAuth) Authenticate(token string) (*domain.Principal, error) {
	role := domain.Role(token)
	if !role.Valid() {
		return nil, errors.New("invalid token")
	}
	return &domain.Principal{UserID: 3, Role: role}, nil
}

func (fakeAuth) EnsureUser(ctx context.Context, username, password string, role domain.Role) error {
	return nil
}

type fakeListings struct {
	lastQuery dto.ListingQuery
	err       error
}

func (f *fakeListings) Create(ctx context.Context, req dto.CreateListingRequest) (*domain.Listing, error) {
	return &domain.Listing{ID: 11, NumPeople: req.NumPeople, Country: req.Country, City: req.City, Price: *req.Price}, nil
}

func (f *fakeListings) All(ctx context.Context) ([]domain.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Listing{{ID: 1, NumPeople: 2, Country: "France", City: "Paris", Price: 100}}, nil
}

func (f *fakeListings) Search(ctx context.Context, query dto.ListingQuery) ([]domain.Listing, error) {
	f.lastQuery = query
	return []domain.Listing{}, nil
}

type fakeBookings struct {
	err       error
	principal domain.Principal
}

func (f *fakeBookings) Book(ctx context.Context, guest domain.Principal, req dto.CreateBookingRequest) (*domain.Booking, error) {
	f.principal = guest
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: 5, ListingID: req.ListingID, GuestID: guest.UserID, GuestNames: req.Names, StartDate: req.DateFrom, EndDate: req.DateTo}, nil
}

type fakeRatings struct {
	err error
}

func (f *fakeRatings) Submit(ctx context.Context, req dto.SubmitRatingRequest) (*domain.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	score, ok := req.Score()
	if !ok || !domain.ValidScore(score) {
		return nil, domain.ErrInvalidScore
	}
	return &domain.Rating{ID: 1, ListingID: 1, BookingID: req.BookingID, Score: score, Comment: req.CommentText()}, nil
}

func (f *fakeRatings) Rank(ctx context.Context, query dto.RankingQuery) ([]domain.ListingRating, dto.Pagination, error) {
	if f.err != nil {
		return nil, dto.Pagination{}, f.err
	}
	return []domain.ListingRating{{ID: 1, Country: "France", City: "Paris", Price: 100, AverageRating: 4}},
		dto.Pagination{Page: query.Page, PageSize: query.PageSize}, nil
}

type testServer struct {
	engine   *gin.Engine
	listings *fakeListings
	bookings *fakeBookings
	ratings  *fakeRatings
}

func newTestServer(t *testing.T, enforceRoles bool) *testServer {
	t.Helper()
	s := &testServer{listings: &fakeListings{}, bookings: &fakeBookings{}, ratings: &fakeRatings{}}
	deps := Dependencies{
		Auth:       fakeAuth{},
		Listings:   s.listings,
		Bookings:   s.bookings,
		Ratings:    s.ratings,
		CORSOrigin: "*",
	}
	if enforceRoles {
		enforcer, err := authz.NewEnforcer()
		require.NoError(t, err)
		deps.Authorizer = enforcer
	}
	engine, err := New(deps)
	require.NoError(t, err)
	s.engine = engine
	return s
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ============================================
// TESTS
// ============================================

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodGet, "/v1/all", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var listings []domain.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	assert.Len(t, listings, 1)

	w = s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodPost, "/v1/auth", "", `{"username":"guest","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Authentication successful", resp.Message)
	assert.NotEmpty(t, resp.Token)

	w = s.do(http.MethodPost, "/v1/auth", "", `{"username":"guest","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decodeError(t, w).Error)

	w = s.do(http.MethodPost, "/v1/auth", "", `{"username":"guest"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsertListing(t *testing.T) {
	s := newTestServer(t, true)
	body := `{"num_people":2,"country":"France","city":"Paris","price":120.5}`

	w := s.do(http.MethodPost, "/v1/host/insert-listing", "host", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.CreateListingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(11), resp.InsertedID)

	// Precio 0 es válido
	w = s.do(http.MethodPost, "/v1/host/insert-listing", "host", `{"num_people":2,"country":"France","city":"Paris","price":0}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/v1/host/insert-listing", "host", `{"num_people":0,"country":"France","city":"Paris","price":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/v1/host/insert-listing", "host", `{"num_people":"two","country":"France","city":"Paris","price":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/v1/host/insert-listing", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/v1/host/insert-listing", "guest", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQueryListings(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodGet, "/v1/guest/query-listings?date_from=2024-01-15&date_to=2024-01-20&num_guest=2&country=France&city=Paris", "guest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	// Valores por defecto de paginación
	assert.Equal(t, 1, s.listings.lastQuery.Page)
	assert.Equal(t, 10, s.listings.lastQuery.PageSize)

	w = s.do(http.MethodGet, "/v1/guest/query-listings?date_from=15-01-2024&date_to=2024-01-20&num_guest=2&country=France&city=Paris", "guest", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "date_from")

	w = s.do(http.MethodGet, "/v1/guest/query-listings?date_from=2024-01-15&date_to=2024-01-20&country=France&city=Paris", "guest", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/guest/query-listings?date_from=2024-01-15&date_to=2024-01-20&num_guest=2&country=France&city=Paris&pageSize=500", "guest", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBook(t *testing.T) {
	s := newTestServer(t, true)
	body := `{"date_from":"2024-01-10","date_to":"2024-01-15","names":["Ana"],"listing_id":1}`

	w := s.do(http.MethodPost, "/v1/guest/book", "guest", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Booking created successfully", resp.Message)
	assert.Equal(t, "2024-01-10", resp.Booking.StartDate)
	assert.Equal(t, uint(3), s.bookings.principal.UserID)

	w = s.do(http.MethodPost, "/v1/guest/book", "guest", `{"date_from":"2024-01-10","date_to":"2024-01-15","names":[],"listing_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.bookings.err = domain.ErrBookingConflict
	w = s.do(http.MethodPost, "/v1/guest/book", "guest", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "booking_conflict", decodeError(t, w).Error)

	s.bookings.err = domain.ErrListingNotFound
	w = s.do(http.MethodPost, "/v1/guest/book", "guest", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.bookings.err = domain.NewInternalError("failed to create booking", errors.New("Error 1213: Deadlock found"))
	w = s.do(http.MethodPost, "/v1/guest/book", "guest", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Deadlock")

	w = s.do(http.MethodPost, "/v1/guest/book", "host", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRate(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodPost, "/v1/guest/rate", "guest", `{"booking_id":1,"rating":4,"comment":"great"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.RatingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Rating submitted successfully", resp.Message)
	assert.Equal(t, 4, resp.Rating.Score)
	assert.Equal(t, "great", resp.Comment)

	w = s.do(http.MethodPost, "/v1/guest/rate", "guest", `{"booking_id":1,"rating":7,"comment":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_score", decodeError(t, w).Error)

	w = s.do(http.MethodPost, "/v1/guest/rate", "guest", `{"booking_id":1,"rating":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.ratings.err = domain.ErrBookingNotFound
	w = s.do(http.MethodPost, "/v1/guest/rate", "guest", `{"booking_id":99,"rating":3,"comment":""}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListingByRating(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodGet, "/v1/admin/listing-by-rating?country=France&city=Paris&threshold=3.5&page=2&pageSize=5", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.RankingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Listings fetched successfully", resp.Message)
	assert.Equal(t, dto.Pagination{Page: 2, PageSize: 5}, resp.Pagination)
	assert.Len(t, resp.Listings, 1)

	w = s.do(http.MethodGet, "/v1/admin/listing-by-rating?country=France&city=Paris", "admin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/admin/listing-by-rating?country=France&city=Paris&threshold=3&page=0", "admin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/admin/listing-by-rating?country=France&city=Paris&threshold=3", "guest", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRolesNotEnforced(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodGet, "/v1/admin/listing-by-rating?country=France&city=Paris&threshold=3", "guest", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// El token sigue siendo obligatorio
	w = s.do(http.MethodGet, "/v1/admin/listing-by-rating?country=France&city=Paris&threshold=3", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
