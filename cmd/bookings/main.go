package main

import (
	"context"

	"cinehub/internal/bookings/events"
	"cinehub/internal/bookings/handler"
	"cinehub/internal/bookings/repository"
	"cinehub/internal/bookings/service"
	"cinehub/internal/bookings/validator"
	"cinehub/internal/checkout/flows"
	checkouthandler "cinehub/internal/checkout/handler"
	"cinehub/internal/checkout/payment"
	checkoutservice "cinehub/internal/checkout/service"
	"cinehub/internal/movies/cache"
	moviehandler "cinehub/internal/movies/handler"
	"cinehub/internal/movies/omdb"
	movieservice "cinehub/internal/movies/service"
	"cinehub/pkg/app"
	"cinehub/pkg/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Bookings service", "store_backend", cfg.StoreBackend)

	if cfg.UsesMongo() {
		cfg.SetMongo()
	}
	cfg.SetRedis()

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "broker", cfg.EventsBroker, "error", err)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := initBookingService(cfg, bookingValidator, publisher)
	catalog := initCatalog(cfg)

	checkout := checkoutservice.NewCheckoutService(flows.Deps{
		Movies:   catalog,
		Bookings: bookingService,
		Payments: payment.NewApprovingGateway(cfg.Log),
	}, bookingValidator, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(readinessChecks(cfg), cfg.Log),
		handler.NewBookingHandler(bookingService, catalog, cfg.Log),
		moviehandler.NewMovieHandler(catalog, cfg.Log),
		checkouthandler.NewCheckoutHandler(checkout, cfg.Log),
	)
	serverApp.OnShutdown("events", publisher.Close)
	serverApp.Run()
}

func initBookingService(cfg *config.Config, v *validator.BookingValidator, publisher events.Publisher) service.BookingService {
	if cfg.UsesMongo() {
		svc := service.NewBookingService(
			repository.NewMongoShowRepository(cfg),
			repository.NewMongoBookingRepository(cfg),
			v,
			publisher,
			cfg,
		)
		cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
		return svc
	}

	store := repository.NewMemoryStore()
	cfg.Log.Warn("Booking service using in-memory store, data is lost on restart")
	return service.NewBookingService(store.Shows(), store.Bookings(), v, publisher, cfg)
}

func initCatalog(cfg *config.Config) movieservice.CatalogService {
	source := omdb.NewClient(cfg.OmdbBaseURL, cfg.OmdbAPIKey, cfg.OmdbTimeout, cfg.Log)

	var movieCache cache.Cache
	if cfg.Client.Redis != nil {
		movieCache = cache.NewRedisCache(cfg.Client.Redis, cfg.MovieCacheTTL)
		cfg.Log.Info("Movie cache enabled", "ttl", cfg.MovieCacheTTL)
	}
	return movieservice.NewCatalogService(source, movieCache, cfg)
}

func readinessChecks(cfg *config.Config) map[string]handler.Check {
	checks := map[string]handler.Check{}
	if cfg.Client.Mongo != nil {
		checks["mongo"] = func(ctx context.Context) error {
			return cfg.Client.Mongo.Ping(ctx, nil)
		}
	}
	if cfg.Client.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cfg.Client.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
