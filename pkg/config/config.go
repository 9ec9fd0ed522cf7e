package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cinehub/pkg/client"
	"cinehub/pkg/logger"

	"github.com/joho/godotenv"
)

var (
	mongoURIRegex        = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	urlPasswordRegex     = regexp.MustCompile(`(\w+://[^:/@]*:)[^@]+@`)
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	StoreBackend      string

	RedisURL         string
	RedisConnTimeout time.Duration
	MovieCacheTTL    time.Duration

	OmdbAPIKey          string
	OmdbBaseURL         string
	OmdbTimeout         time.Duration
	FeaturedMovies      []string
	FeaturedConcurrency int

	DefaultCinema       string
	DefaultPricePerSeat int64
	ReserveMaxAttempts  int

	AuthJWTSecret string

	EventsBroker string
	RabbitMQURL  string

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads an optional .env file, then the environment. Invalid
// configuration is fatal.
func Load(serviceName string) *Config {
	envFileErr := godotenv.Load()

	cfg := FromEnv(serviceName)

	if envFileErr != nil && !errors.Is(envFileErr, fs.ErrNotExist) {
		cfg.Log.Warn("Failed to read .env file", "error", envFileErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv(serviceName string) *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		StoreBackend:      strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),

		RedisURL:         getEnvStr(EnvRedisURL, ""),
		RedisConnTimeout: DefaultRedisConnTimeout,
		MovieCacheTTL:    getEnvDuration(EnvMovieCacheTTL, DefaultMovieCacheTTL),

		OmdbAPIKey:          getEnvStr(EnvOmdbAPIKey, ""),
		OmdbBaseURL:         getEnvStr(EnvOmdbBaseURL, DefaultOmdbBaseURL),
		OmdbTimeout:         getEnvDuration(EnvOmdbTimeout, DefaultOmdbTimeout),
		FeaturedMovies:      getEnvList(EnvFeaturedMovies, DefaultFeaturedMovies),
		FeaturedConcurrency: getEnvNum(EnvFeaturedConcurrency, DefaultFeaturedConcurrency),

		DefaultCinema:       getEnvStr(EnvDefaultCinema, DefaultCinema),
		DefaultPricePerSeat: int64(getEnvNum(EnvDefaultPricePerSeat, int(DefaultPricePerSeat))),
		ReserveMaxAttempts:  getEnvNum(EnvReserveMaxAttempts, DefaultReserveAttempts),

		AuthJWTSecret: getEnvStr(EnvAuthJWTSecret, ""),

		EventsBroker: strings.ToLower(getEnvStr(EnvEventsBroker, DefaultEventsBroker)),
		RabbitMQURL:  getEnvStr(EnvRabbitMQURL, DefaultRabbitMQURL),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects only when REDIS_URL is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisURL == "" {
		cfg.Log.Info("REDIS_URL not set, running without Redis")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.RedisConnTimeout)
}

func (cfg *Config) UsesMongo() bool {
	return cfg.StoreBackend == StoreBackendMongo
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreBackend {
	case StoreBackendMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StoreBackendMemory:
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of [mongo, memory], got: %s", cfg.StoreBackend))
	}

	if cfg.RedisURL != "" && !strings.HasPrefix(cfg.RedisURL, "redis://") && !strings.HasPrefix(cfg.RedisURL, "rediss://") {
		errors = append(errors, "RedisURL must start with 'redis://' or 'rediss://'")
	}
	if cfg.MovieCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("MovieCacheTTL must be positive, got: %s", cfg.MovieCacheTTL))
	}

	if cfg.OmdbBaseURL == "" {
		errors = append(errors, "OmdbBaseURL cannot be empty")
	}
	if cfg.OmdbTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("OmdbTimeout must be positive, got: %s", cfg.OmdbTimeout))
	}
	if cfg.FeaturedConcurrency <= 0 {
		errors = append(errors, fmt.Sprintf("FeaturedConcurrency must be positive, got: %d", cfg.FeaturedConcurrency))
	}

	if strings.TrimSpace(cfg.DefaultCinema) == "" {
		errors = append(errors, "DefaultCinema cannot be empty")
	}
	if cfg.DefaultPricePerSeat <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultPricePerSeat must be positive, got: %d", cfg.DefaultPricePerSeat))
	}
	if cfg.ReserveMaxAttempts < MinReserveAttempts || cfg.ReserveMaxAttempts > MaxReserveAttempts {
		errors = append(errors, fmt.Sprintf("ReserveMaxAttempts must be between %d and %d, got: %d", MinReserveAttempts, MaxReserveAttempts, cfg.ReserveMaxAttempts))
	}

	switch cfg.EventsBroker {
	case EventsBrokerKafka:
	case EventsBrokerRabbitMQ:
		if !strings.HasPrefix(cfg.RabbitMQURL, "amqp://") && !strings.HasPrefix(cfg.RabbitMQURL, "amqps://") {
			errors = append(errors, "RabbitMQURL must start with 'amqp://' or 'amqps://'")
		}
	case EventsBrokerNone:
	default:
		errors = append(errors, fmt.Sprintf("EventsBroker must be one of [kafka, rabbitmq, none], got: %s", cfg.EventsBroker))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_backend", cfg.StoreBackend,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_url", redactURLPassword(cfg.RedisURL),
		"movie_cache_ttl", cfg.MovieCacheTTL,
		"omdb_base_url", cfg.OmdbBaseURL,
		"omdb_api_key_set", cfg.OmdbAPIKey != "",
		"omdb_timeout", cfg.OmdbTimeout,
		"featured_movies", len(cfg.FeaturedMovies),
		"default_cinema", cfg.DefaultCinema,
		"default_price_per_seat", cfg.DefaultPricePerSeat,
		"reserve_max_attempts", cfg.ReserveMaxAttempts,
		"auth_jwt_secret_set", cfg.AuthJWTSecret != "",
		"events_broker", cfg.EventsBroker,
		"rabbitmq_url", redactURLPassword(cfg.RabbitMQURL),
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	return mongoCredentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func redactURLPassword(uri string) string {
	return urlPasswordRegex.ReplaceAllString(uri, "${1}***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
