// Package router arma el engine de gin con todas las rutas
package router

import (
	"bookings-api/controllers"
	"bookings-api/middleware"
	"bookings-api/services"
	"bookings-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies son los servicios que necesitan las rutas
type Dependencies struct {
	Auth     services.AuthService
	Listings services.ListingService
	Bookings services.BookingService
	Ratings  services.RatingService
	Health   *controllers.HealthController

	// Authorizer es nil cuando los roles no se validan
	Authorizer middleware.Authorizer
	CORSOrigin string
}

// New crea el engine con middlewares y rutas
//
//	GET  /health
//	GET  /metrics
//	GET  /v1/all
//	POST /v1/auth
//	POST /v1/host/insert-listing     (host, admin)
//	GET  /v1/guest/query-listings    (guest, admin)
//	POST /v1/guest/book              (guest, admin)
//	POST /v1/guest/rate              (guest, admin)
//	GET  /v1/admin/listing-by-rating (admin)
func New(deps Dependencies) (*gin.Engine, error) {
	// Reglas propias del validador (isodate)
	if err := validation.Register(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Prometheus(),
		middleware.CORS(deps.CORSOrigin),
	)

	authCtrl := controllers.NewAuthController(deps.Auth)
	listingCtrl := controllers.NewListingController(deps.Listings)
	bookingCtrl := controllers.NewBookingController(deps.Bookings)
	ratingCtrl := controllers.NewRatingController(deps.Ratings)

	health := deps.Health
	if health == nil {
		health = controllers.NewHealthController(nil)
	}
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rutas PÚBLICAS
	v1 := r.Group("/v1")
	v1.GET("/all", listingCtrl.All)
	v1.POST("/auth", authCtrl.Login)

	// Rutas PROTEGIDAS (requieren JWT)
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	if deps.Authorizer != nil {
		protected.Use(middleware.RequireCapability(deps.Authorizer))
	}

	host := protected.Group("/host")
	host.POST("/insert-listing", listingCtrl.Insert)

	guest := protected.Group("/guest")
	guest.GET("/query-listings", listingCtrl.Query)
	guest.POST("/book", bookingCtrl.Book)
	guest.POST("/rate", ratingCtrl.Rate)

	admin := protected.Group("/admin")
	admin.GET("/listing-by-rating", ratingCtrl.ListingByRating)

	return r, nil
}
