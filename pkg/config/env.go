package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvStoreBackend      = "STORE_BACKEND"

	EnvRedisURL      = "REDIS_URL"
	EnvMovieCacheTTL = "MOVIE_CACHE_TTL"

	EnvOmdbAPIKey          = "OMDB_API_KEY"
	EnvOmdbBaseURL         = "OMDB_BASE_URL"
	EnvOmdbTimeout         = "OMDB_TIMEOUT"
	EnvFeaturedMovies      = "FEATURED_MOVIES"
	EnvFeaturedConcurrency = "FEATURED_CONCURRENCY"

	EnvDefaultCinema       = "DEFAULT_CINEMA"
	EnvDefaultPricePerSeat = "DEFAULT_PRICE_PER_SEAT"
	EnvReserveMaxAttempts  = "RESERVE_MAX_ATTEMPTS"

	EnvAuthJWTSecret = "AUTH_JWT_SECRET"

	EnvEventsBroker = "EVENTS_BROKER"
	EnvRabbitMQURL  = "RABBITMQ_URL"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
