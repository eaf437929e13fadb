package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookings-api/authz"
	"bookings-api/config"
	"bookings-api/consumers"
	"bookings-api/controllers"
	"bookings-api/domain"
	"bookings-api/events"
	"bookings-api/logging"
	"bookings-api/repositories"
	"bookings-api/router"
	"bookings-api/services"
	"bookings-api/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Configuración
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Bool("cache", cfg.Cache.Enabled).
		Bool("rabbitmq", cfg.RabbitMQ.Enabled).
		Bool("enforce_roles", cfg.Auth.EnforceRoles).
		Msg("Starting Bookings API")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. MySQL + migraciones
	db, err := repositories.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := repositories.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to get database handle")
	}
	defer sqlDB.Close()

	// 3. Repositorios
	userRepo := repositories.NewUserRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)

	var rankingCache repositories.RankingCache
	if cfg.Cache.Enabled {
		rankingCache = repositories.NewRankingCache(cfg.Cache)
	}

	// 4. Eventos: RabbitMQ si está habilitado, si no en el mismo proceso
	eventRouter := events.NewRouter()
	consumers.RegisterHandlers(eventRouter, rankingCache)

	var publisher events.Publisher
	var consumer *consumers.RabbitMQConsumer
	if cfg.RabbitMQ.Enabled {
		rabbitPublisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create RabbitMQ publisher")
		}
		publisher = rabbitPublisher

		consumer, err = consumers.NewRabbitMQConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, eventRouter)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create RabbitMQ consumer")
		}
		if err := consumer.Start(); err != nil {
			logging.Fatal().Err(err).Msg("Failed to start RabbitMQ consumer")
		}
	} else {
		publisher = events.NewLocalPublisher(eventRouter)
	}

	// 5. Servicios
	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	listingService := services.NewListingService(listingRepo)
	bookingService := services.NewBookingService(bookingRepo, publisher)
	ratingService := services.NewRatingService(ratingRepo, bookingRepo, rankingCache, publisher)

	seedCtx := context.Background()
	for _, u := range cfg.Auth.SeedUsers {
		if err := authService.EnsureUser(seedCtx, u.Username, u.Password, domain.Role(u.Role)); err != nil {
			logging.Fatal().Err(err).Str("username", u.Username).Msg("Failed to seed user")
		}
	}

	// 6. Router
	deps := router.Dependencies{
		Auth:       authService,
		Listings:   listingService,
		Bookings:   bookingService,
		Ratings:    ratingService,
		Health:     controllers.NewHealthController(sqlDB),
		CORSOrigin: cfg.Server.CORSOrigin,
	}
	if cfg.Auth.EnforceRoles {
		enforcer, err := authz.NewEnforcer()
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create authorization enforcer")
		}
		deps.Authorizer = enforcer
	}

	engine, err := router.New(deps)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build router")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	// 7. Arrancar el servidor en una goroutine
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down Bookings API")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Error shutting down server")
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing RabbitMQ consumer")
		}
	}
	if err := publisher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event publisher")
	}

	logging.Info().Msg("Bookings API shut down complete")
}
